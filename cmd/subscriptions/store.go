package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/pkg/httpserver"
	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/pg"
	"github.com/dmitrymomot/subscriptions/pkg/sqlite"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
	"github.com/dmitrymomot/subscriptions/pkg/subscription/pgstore"
	"github.com/dmitrymomot/subscriptions/pkg/subscription/sqlitestore"
)

// storeHandle is an open store with its readiness check and cleanup.
type storeHandle struct {
	store subscription.Store
	check httpserver.Check
	close func()
}

func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (*storeHandle, error) {
	switch cfg.StoreDriver {
	case driverMemory:
		log.WarnContext(ctx, "using in-memory store, records are lost on restart")
		return &storeHandle{
			store: subscription.NewMemoryStore(),
			check: func(context.Context) error { return nil },
			close: func() {},
		}, nil

	case driverPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, cfg.Postgres, pgstore.Migrations(), log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storeHandle{store: pgstore.New(pool), check: pg.Healthcheck(pool), close: pool.Close}, nil

	default:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := sqlite.Migrate(ctx, db, cfg.SQLite, sqlitestore.Migrations(), log); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &storeHandle{
			store: sqlitestore.New(db),
			check: sqlite.Healthcheck(db),
			close: func() {
				if err := db.Close(); err != nil {
					log.Error("failed to close sqlite database", logger.Error(err))
				}
			},
		}, nil
	}
}

// migrateStore applies migrations for the configured driver and returns
// the resulting schema version.
func migrateStore(ctx context.Context, cfg appConfig, log *slog.Logger) (int64, error) {
	switch cfg.StoreDriver {
	case driverMemory:
		return 0, errors.New("the memory store has no schema to migrate")

	case driverPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return 0, err
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool, cfg.Postgres, pgstore.Migrations(), log); err != nil {
			return 0, err
		}
		return pg.MigrationVersion(ctx, pool, cfg.Postgres.MigrationsTable)

	default:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		if err := sqlite.Migrate(ctx, db, cfg.SQLite, sqlitestore.Migrations(), log); err != nil {
			return 0, err
		}
		return sqlite.MigrationVersion(ctx, db, cfg.SQLite)
	}
}
