package main

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/modules/billing"
	"github.com/dmitrymomot/subscriptions/pkg/config"
	"github.com/dmitrymomot/subscriptions/pkg/email"
	"github.com/dmitrymomot/subscriptions/pkg/httpserver"
	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/pg"
	"github.com/dmitrymomot/subscriptions/pkg/ratelimiter"
	"github.com/dmitrymomot/subscriptions/pkg/redis"
	"github.com/dmitrymomot/subscriptions/pkg/requestid"
	"github.com/dmitrymomot/subscriptions/pkg/sqlite"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

const serviceName = "subscriptions"

// Store drivers selectable with STORE_DRIVER.
const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	HTTP         httpserver.Config
	Billing      billing.Config
	Subscription subscription.Config
	SQLite       sqlite.Config
	Postgres     pg.Config
	Redis        redis.Config
	RateLimit    ratelimiter.Config
	Email        email.Config
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return appConfig{}, err
	}
	switch cfg.StoreDriver {
	case driverSQLite, driverPostgres, driverMemory:
	default:
		return appConfig{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func loadEnvFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return config.LoadEnv(paths...)
}

func newLogger(cfg appConfig) *slog.Logger {
	log := logger.New(
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(requestid.LogExtractor()),
	)
	logger.SetAsDefault(log)
	return log
}
