package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/infra/pgutils"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct{ db *sql.DB }

func New(db *sql.DB) *balancesRepo {
	return &balancesRepo{db: db}
}

// LoadAll reads every row of the balances table. An empty table reports
// balances.ErrNotInitialized.
func (r *balancesRepo) LoadAll(ctx context.Context) (map[uuid.UUID]money.Amount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, balance
		FROM balances
	`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make(map[uuid.UUID]money.Amount)

	for rows.Next() {
		var (
			id    uuid.UUID
			cents int64
		)

		err = rows.Scan(&id, &cents)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}

		out[id] = money.Cents(cents)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate balances: %w", err)
	}

	if len(out) == 0 {
		return nil, balances.ErrNotInitialized
	}

	return out, nil
}

// SaveAll upserts records in one transaction.
func (r *balancesRepo) SaveAll(ctx context.Context, records map[uuid.UUID]money.Amount) error {
	if len(records) == 0 {
		return nil
	}

	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO balances (player_id, balance)
			VALUES ($1, $2)
			ON CONFLICT (player_id) DO UPDATE
			SET balance = EXCLUDED.balance,
			    updated_at = now()
		`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		//nolint:errcheck
		defer stmt.Close()

		for id, amount := range records {
			_, err = stmt.ExecContext(ctx, id, int64(amount))
			if err != nil {
				return fmt.Errorf("upsert balance %s: %w", id, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save balances: %w", err)
	}

	return nil
}
