package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fastprodman/econoneeds/internal/infra/redisutil"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

// balancesRepo keeps the ledger in one hash, field = player UUID,
// value = balance in cents.
type balancesRepo struct {
	rdb goredis.UniversalClient
	key string
}

func New(rdb goredis.UniversalClient, prefix string) *balancesRepo {
	return &balancesRepo{rdb: rdb, key: redisutil.Key(prefix, "balances")}
}

func (r *balancesRepo) LoadAll(ctx context.Context) (map[uuid.UUID]money.Amount, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", r.key, err)
	}

	if len(fields) == 0 {
		return nil, balances.ErrNotInitialized
	}

	out := make(map[uuid.UUID]money.Amount, len(fields))

	for field, raw := range fields {
		id, err := uuid.Parse(field)
		if err != nil {
			slog.Warn("skip malformed balance field", "key", r.key, "field", field)

			continue
		}

		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Warn("skip malformed balance value", "key", r.key, "player", id, "value", raw)

			continue
		}

		out[id] = money.Cents(cents)
	}

	return out, nil
}

// SaveAll writes records with one HSET inside MULTI/EXEC.
func (r *balancesRepo) SaveAll(ctx context.Context, records map[uuid.UUID]money.Amount) error {
	if len(records) == 0 {
		return nil
	}

	values := make(map[string]any, len(records))
	for id, amount := range records {
		values[id.String()] = int64(amount)
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, r.key, values)

		return nil
	})
	if err != nil {
		return fmt.Errorf("save balances to %s: %w", r.key, err)
	}

	return nil
}
