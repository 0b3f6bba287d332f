package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fastprodman/econoneeds/internal/infra/redisutil"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
)

var _ prices.Prices = (*pricesRepo)(nil)

type pricesRepo struct {
	rdb goredis.UniversalClient
	key string
}

func New(rdb goredis.UniversalClient, prefix string) *pricesRepo {
	return &pricesRepo{rdb: rdb, key: redisutil.Key(prefix, "prices")}
}

func (r *pricesRepo) LoadAll(ctx context.Context) (map[string]money.Amount, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", r.key, err)
	}

	if len(fields) == 0 {
		return nil, prices.ErrNotInitialized
	}

	out := make(map[string]money.Amount, len(fields))

	for item, raw := range fields {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Warn("skip malformed price", "key", r.key, "item", item, "value", raw)

			continue
		}

		out[item] = money.Cents(cents)
	}

	return out, nil
}

func (r *pricesRepo) SaveAll(ctx context.Context, records map[string]money.Amount) error {
	if len(records) == 0 {
		return nil
	}

	values := make(map[string]any, len(records))
	for item, price := range records {
		values[item] = int64(price)
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, r.key, values)

		return nil
	})
	if err != nil {
		return fmt.Errorf("save prices to %s: %w", r.key, err)
	}

	return nil
}
