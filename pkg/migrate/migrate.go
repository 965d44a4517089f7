// Package migrate applies embedded goose migrations to a database/sql handle.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

var (
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
	ErrNoMigrations            = errors.New("migrations filesystem not provided")
)

// DefaultTable stores the applied migration versions.
const DefaultTable = "schema_migrations"

// Logger receives goose progress output.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Source is a set of SQL migrations in dir inside FS.
type Source struct {
	FS    fs.FS
	Dir   string
	Table string
}

// goose keeps dialect, table and base FS in package state.
var mu sync.Mutex

// Up applies every pending migration from src using the goose dialect.
func Up(ctx context.Context, db *sql.DB, dialect string, src Source, log Logger) error {
	if src.FS == nil {
		return errors.Join(ErrFailedToApplyMigrations, ErrNoMigrations)
	}
	dir := src.Dir
	if dir == "" {
		dir = "."
	}
	table := src.Table
	if table == "" {
		table = DefaultTable
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(table)
	if log != nil {
		goose.SetLogger(&slogAdapter{log: log})
	}

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, dialect, table string) (int64, error) {
	if table == "" {
		table = DefaultTable
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetTableName(table)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

type slogAdapter struct {
	log Logger
}

func (a *slogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a *slogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
