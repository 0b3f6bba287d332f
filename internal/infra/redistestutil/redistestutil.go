package redistestutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/econoneeds/internal/config"
	"github.com/fastprodman/econoneeds/internal/infra/redisutil"
)

const (
	BaseAddr = "localhost:6379"

	// AddrEnv overrides BaseAddr.
	AddrEnv = "REDIS_TEST_ADDR"
)

// NewTestClient returns a client and a key prefix unique to the test.
// Keys under the prefix are deleted on cleanup. The test is skipped when
// no Redis server is reachable.
func NewTestClient(t *testing.T) (*redis.Client, string) {
	t.Helper()

	addr := BaseAddr
	if v := os.Getenv(AddrEnv); v != "" {
		addr = v
	}

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	rdb, err := redisutil.Open(ctx, config.RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	var rnd [6]byte
	_, _ = rand.Read(rnd[:])
	prefix := "test:" + hex.EncodeToString(rnd[:])

	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer ccancel()

		iter := rdb.Scan(cctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(cctx) {
			_ = rdb.Del(cctx, iter.Val()).Err()
		}

		_ = rdb.Close()
	})

	return rdb, prefix
}
