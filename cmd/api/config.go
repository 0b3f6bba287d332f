package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/econoneeds/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AdminToken      string        `env:"APP_ADMIN_TOKEN"`
	Currency        string        `env:"APP_CURRENCY" envDefault:"USD"`

	Store    config.StoreConfig
	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	YAML     config.YAMLConfig
	Kafka    config.KafkaConfig
}
