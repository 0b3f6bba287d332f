package redisutil

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/econoneeds/internal/config"
)

// Open connects to Redis and pings it once.
func Open(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := rdb.Ping(ctx).Err()
	if err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}

// Key joins a prefix and a name with ':'.
func Key(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + ":" + name
}
