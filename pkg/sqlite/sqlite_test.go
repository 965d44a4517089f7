package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/migrate"
	"github.com/dmitrymomot/subscriptions/pkg/sqlite"
)

var testMigrations = fstest.MapFS{
	"00001_items.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE items (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    qty  INTEGER NOT NULL CHECK (qty >= 0)
);

-- +goose Down
DROP TABLE items;
`)},
}

func tempConfig(t *testing.T) sqlite.Config {
	t.Helper()
	return sqlite.Config{Path: filepath.Join(t.TempDir(), "nested", "test.sqlite")}
}

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	cfg := tempConfig(t)

	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Healthcheck(db)(ctx))
	require.NoError(t, sqlite.Migrate(ctx, db, cfg, testMigrations, logger.Discard()))
	// Applying twice is a no-op.
	require.NoError(t, sqlite.Migrate(ctx, db, cfg, testMigrations, logger.Discard()))

	version, err := migrate.Version(ctx, db, "sqlite3", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = db.ExecContext(ctx, `INSERT INTO items (name, qty) VALUES ('a', 1)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO items (name, qty) VALUES ('a', 2)`)
	assert.True(t, sqlite.IsDuplicateKeyError(err))
	assert.False(t, sqlite.IsCheckViolationError(err))

	_, err = db.ExecContext(ctx, `INSERT INTO items (name, qty) VALUES ('b', -1)`)
	assert.True(t, sqlite.IsCheckViolationError(err))
	assert.False(t, sqlite.IsDuplicateKeyError(err))
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()
	_, err := sqlite.Open(context.Background(), sqlite.Config{})
	assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
}

func TestMigrate_NoFS(t *testing.T) {
	ctx := context.Background()
	cfg := tempConfig(t)
	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = sqlite.Migrate(ctx, db, cfg, nil, nil)
	assert.ErrorIs(t, err, migrate.ErrNoMigrations)
}
