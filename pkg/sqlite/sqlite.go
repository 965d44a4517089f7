package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/subscriptions/pkg/migrate"
)

// Open opens the database at cfg.Path, creating its directory if needed,
// and verifies the connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, errors.Join(ErrFailedToOpenDatabase, err)
		}
	}

	busy := cfg.BusyTimeoutMS
	if busy <= 0 {
		busy = 30000
	}
	dsn := cfg.Path + "?" + url.Values{
		"_pragma": []string{
			fmt.Sprintf("busy_timeout(%d)", busy),
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
			"foreign_keys(ON)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDatabase, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToOpenDatabase, err)
	}
	return db, nil
}

// Healthcheck returns a readiness probe pinging db.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Migrate applies the SQL migrations found at the root of fsys.
func Migrate(ctx context.Context, db *sql.DB, cfg Config, fsys fs.FS, log migrate.Logger) error {
	return migrate.Up(ctx, db, "sqlite3", migrate.Source{FS: fsys, Table: cfg.MigrationsTable}, log)
}

// MigrationVersion returns the applied schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, cfg Config) (int64, error) {
	return migrate.Version(ctx, db, "sqlite3", cfg.MigrationsTable)
}
