package pgutils

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/econoneeds/internal/infra/pgtestutil"
)

func TestWithTx(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	ctx := t.Context()
	errBoom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO prices (item_id, price) VALUES ('DIAMOND', 100)`)
		if err != nil {
			return err
		}

		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("want fn error back, got %v", err)
	}

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO prices (item_id, price) VALUES ('EMERALD', 75)`)

		return err
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	var n int

	err = db.QueryRowContext(ctx, `SELECT count(*) FROM prices`).Scan(&n)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if n != 1 {
		t.Fatalf("rolled back insert survived: %d rows", n)
	}
}
