package envconf

import (
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/econoneeds/internal/money"
)

type nested struct {
	Addr    string        `env:"TEST_NESTED_ADDR" envDefault:"localhost:6379"`
	Timeout time.Duration `env:"TEST_NESTED_TIMEOUT" envDefault:"3s"`
}

type sample struct {
	Name    string       `env:"TEST_NAME"`
	Port    int          `env:"TEST_PORT" envDefault:"8080"`
	Debug   bool         `env:"TEST_DEBUG" envDefault:"false"`
	Brokers []string     `env:"TEST_BROKERS" envDefault:""`
	Limit   money.Amount `env:"TEST_LIMIT" envDefault:"12.50"`
	Nested  nested
	Ptr     *nested
	skipped string
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_NAME", "ledger")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_BROKERS", "a:9092, b:9092,,")
	t.Setenv("TEST_NESTED_TIMEOUT", "250ms")

	var cfg sample

	err := Load(&cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "ledger" || cfg.Port != 9090 || cfg.Debug {
		t.Fatalf("scalars: %+v", cfg)
	}

	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "a:9092" || cfg.Brokers[1] != "b:9092" {
		t.Fatalf("brokers: %q", cfg.Brokers)
	}

	if cfg.Limit != money.Cents(1250) {
		t.Fatalf("limit: %s", cfg.Limit)
	}

	if cfg.Nested.Addr != "localhost:6379" || cfg.Nested.Timeout != 250*time.Millisecond {
		t.Fatalf("nested: %+v", cfg.Nested)
	}

	if cfg.Ptr == nil || cfg.Ptr.Timeout != 250*time.Millisecond {
		t.Fatalf("pointer struct not loaded: %+v", cfg.Ptr)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg struct {
		Token string `env:"TEST_REQUIRED_TOKEN_UNSET"`
	}

	err := Load(&cfg)
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("TEST_BAD_PORT", "eighty")

	var cfg struct {
		Port int `env:"TEST_BAD_PORT"`
	}

	err := Load(&cfg)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_RejectsNonPointer(t *testing.T) {
	t.Parallel()

	err := Load(sample{})
	if err == nil {
		t.Fatal("expected error for non-pointer destination")
	}
}
