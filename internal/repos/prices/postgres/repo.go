package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/econoneeds/internal/infra/pgutils"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
)

var _ prices.Prices = (*pricesRepo)(nil)

type pricesRepo struct{ db *sql.DB }

func New(db *sql.DB) *pricesRepo {
	return &pricesRepo{db: db}
}

func (r *pricesRepo) LoadAll(ctx context.Context) (map[string]money.Amount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, price
		FROM prices
	`)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make(map[string]money.Amount)

	for rows.Next() {
		var (
			item  string
			cents int64
		)

		err = rows.Scan(&item, &cents)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}

		out[item] = money.Cents(cents)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}

	if len(out) == 0 {
		return nil, prices.ErrNotInitialized
	}

	return out, nil
}

func (r *pricesRepo) SaveAll(ctx context.Context, records map[string]money.Amount) error {
	if len(records) == 0 {
		return nil
	}

	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO prices (item_id, price)
			VALUES ($1, $2)
			ON CONFLICT (item_id) DO UPDATE
			SET price = EXCLUDED.price,
			    updated_at = now()
		`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		//nolint:errcheck
		defer stmt.Close()

		for item, price := range records {
			_, err = stmt.ExecContext(ctx, item, int64(price))
			if err != nil {
				return fmt.Errorf("upsert price %s: %w", item, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save prices: %w", err)
	}

	return nil
}
