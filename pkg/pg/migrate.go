package pg

import (
	"context"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/subscriptions/pkg/migrate"
)

// Migrate applies the SQL migrations found at the root of fsys.
// goose needs database/sql, so the pool is bridged with stdlib.OpenDBFromPool;
// the bridge shares the pool's connections.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, fsys fs.FS, log migrate.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil && log != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	return migrate.Up(ctx, db, "postgres", migrate.Source{FS: fsys, Table: cfg.MigrationsTable}, log)
}

// MigrationVersion returns the applied schema version.
func MigrationVersion(ctx context.Context, pool *pgxpool.Pool, table string) (int64, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate.Version(ctx, db, "postgres", table)
}
