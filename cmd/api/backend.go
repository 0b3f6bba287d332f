package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/econoneeds/internal/config"
	"github.com/fastprodman/econoneeds/internal/infra/pgutils"
	"github.com/fastprodman/econoneeds/internal/infra/redisutil"
	"github.com/fastprodman/econoneeds/internal/repos/balances"
	pgbalances "github.com/fastprodman/econoneeds/internal/repos/balances/postgres"
	redisbalances "github.com/fastprodman/econoneeds/internal/repos/balances/redis"
	yamlbalances "github.com/fastprodman/econoneeds/internal/repos/balances/yamlfile"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
	pgprices "github.com/fastprodman/econoneeds/internal/repos/prices/postgres"
	redisprices "github.com/fastprodman/econoneeds/internal/repos/prices/redis"
	yamlprices "github.com/fastprodman/econoneeds/internal/repos/prices/yamlfile"
	"github.com/fastprodman/econoneeds/pkg/shutdownqueue"
)

type backend struct {
	balances balances.Balances
	prices   prices.Prices
}

// openBackend builds both repositories for the configured backend and
// registers their connections for shutdown.
func openBackend(ctx context.Context, cfg *apiConfig, q *shutdownqueue.Queue) (backend, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return backend{}, fmt.Errorf("open postgres: %w", err)
		}

		q.Add("postgres", func(context.Context) error {
			slog.Info("Close postgres")

			return db.Close()
		})

		return backend{balances: pgbalances.New(db), prices: pgprices.New(db)}, nil

	case config.BackendRedis:
		rdb, err := redisutil.Open(ctx, cfg.Redis)
		if err != nil {
			return backend{}, fmt.Errorf("open redis: %w", err)
		}

		q.Add("redis", func(context.Context) error {
			slog.Info("Close redis")

			return rdb.Close()
		})

		return backend{
			balances: redisbalances.New(rdb, cfg.Redis.KeyPrefix),
			prices:   redisprices.New(rdb, cfg.Redis.KeyPrefix),
		}, nil

	case config.BackendYAML:
		return backend{
			balances: yamlbalances.New(cfg.YAML.BalancesPath),
			prices:   yamlprices.New(cfg.YAML.PricesPath),
		}, nil

	default:
		return backend{}, fmt.Errorf("unsupported backend %q", cfg.Store.Backend)
	}
}
