package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/sqlite"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
	"github.com/dmitrymomot/subscriptions/pkg/subscription/sqlitestore"
	"github.com/dmitrymomot/subscriptions/pkg/subscription/storetest"
)

func newStore(t *testing.T) subscription.Store {
	t.Helper()
	ctx := context.Background()
	cfg := sqlite.Config{Path: filepath.Join(t.TempDir(), "subscriptions.sqlite")}

	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db, cfg, sqlitestore.Migrations(), logger.Discard()))
	return sqlitestore.New(db)
}

func TestStore(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestStore_PlanConstraint(t *testing.T) {
	store := newStore(t)
	err := store.Create(context.Background(), &subscription.Subscription{Email: "a@b.com", Plan: "Gold"})
	assert.ErrorIs(t, err, subscription.ErrInvalidRequest)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := sqlite.Config{Path: filepath.Join(t.TempDir(), "subscriptions.sqlite")}

	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db, cfg, sqlitestore.Migrations(), logger.Discard()))
	require.NoError(t, sqlitestore.New(db).Create(ctx, &subscription.Subscription{
		Email:              "a@b.com",
		Plan:               subscription.PlanPro,
		Status:             subscription.StatusActive,
		ProviderCustomerID: "cus_1",
	}))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, cfg, sqlitestore.Migrations(), logger.Discard()))

	sub, err := sqlitestore.New(db).GetByCustomerID(ctx, "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", sub.Email)
	assert.True(t, sub.IsActive())
	assert.Empty(t, sub.ProviderSubscriptionID)
}
