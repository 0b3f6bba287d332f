package config

import (
	"testing"
	"time"

	"github.com/fastprodman/econoneeds/pkg/envconf"
)

func TestBackend_UnmarshalText(t *testing.T) {
	t.Parallel()

	var b Backend

	for _, v := range []string{"postgres", "redis", "yaml"} {
		err := b.UnmarshalText([]byte(v))
		if err != nil || string(b) != v {
			t.Fatalf("%q: got %q, %v", v, b, err)
		}
	}

	err := b.UnmarshalText([]byte("mysql"))
	if err == nil {
		t.Fatal("unknown backend accepted")
	}
}

func TestDefaults(t *testing.T) {
	var cfg struct {
		Store StoreConfig
		Kafka KafkaConfig
		Redis RedisConfig
	}

	err := envconf.Load(&cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Store.Backend != BackendPostgres || cfg.Store.FlushInterval != 5*time.Second {
		t.Fatalf("store defaults: %+v", cfg.Store)
	}

	if cfg.Kafka.Enabled() {
		t.Fatalf("kafka must be off without brokers: %+v", cfg.Kafka)
	}

	if cfg.Redis.KeyPrefix != "econoneeds" {
		t.Fatalf("redis defaults: %+v", cfg.Redis)
	}
}

func TestKafkaEnabledFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("STORE_BACKEND", "yaml")

	var cfg struct {
		Store StoreConfig
		Kafka KafkaConfig
	}

	err := envconf.Load(&cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Kafka.Enabled() || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("kafka: %+v", cfg.Kafka)
	}

	if cfg.Store.Backend != BackendYAML {
		t.Fatalf("backend: %q", cfg.Store.Backend)
	}
}
