// Package storetest holds the behavior every subscription.Store must share.
// Store implementations call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) subscription.Store

// Run exercises store semantics against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("create defaults", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{Email: "a@b.com", Plan: subscription.PlanPro}))

		sub, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", sub.Email)
		assert.Equal(t, subscription.PlanPro, sub.Plan)
		assert.Equal(t, subscription.StatusIncomplete, sub.Status)
		assert.Empty(t, sub.ProviderCustomerID)
		assert.Empty(t, sub.ProviderSubscriptionID)
		assert.False(t, sub.CreatedAt.IsZero())
		assert.False(t, sub.UpdatedAt.IsZero())
	})

	t.Run("create keeps given fields", func(t *testing.T) {
		store := newStore(t)
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{
			Email:                  "a@b.com",
			Plan:                   subscription.PlanEnterprise,
			Status:                 subscription.StatusActive,
			ProviderCustomerID:     "cus_1",
			ProviderSubscriptionID: "sub_1",
			CreatedAt:              created,
			UpdatedAt:              created,
		}))

		sub, err := store.GetByCustomerID(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, sub.Status)
		assert.Equal(t, "sub_1", sub.ProviderSubscriptionID)
		assert.True(t, created.Equal(sub.CreatedAt), "created_at %s", sub.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{Email: "a@b.com", Plan: subscription.PlanPro}))
		err := store.Create(ctx, &subscription.Subscription{Email: "a@b.com", Plan: subscription.PlanBasic})
		assert.ErrorIs(t, err, subscription.ErrDuplicateKey)

		sub, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanPro, sub.Plan)
	})

	t.Run("not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetByEmail(ctx, "missing@b.com")
		assert.ErrorIs(t, err, subscription.ErrNotFound)
		_, err = store.GetByCustomerID(ctx, "cus_missing")
		assert.ErrorIs(t, err, subscription.ErrNotFound)
	})

	t.Run("partial updates", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{
			Email:     "a@b.com",
			Plan:      subscription.PlanBasic,
			CreatedAt: time.Now().Add(-time.Hour).UTC(),
			UpdatedAt: time.Now().Add(-time.Hour).UTC(),
		}))
		before, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)

		ok, err := store.UpdateByEmail(ctx, "a@b.com",
			subscription.SetStatus(subscription.StatusActive).WithCustomerID("cus_1").WithSubscriptionID("sub_1"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.UpdateByEmail(ctx, "a@b.com", subscription.SetStatus(subscription.StatusPastDue))
		require.NoError(t, err)
		assert.True(t, ok)

		sub, err := store.GetByCustomerID(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPastDue, sub.Status)
		assert.Equal(t, "cus_1", sub.ProviderCustomerID, "unset fields are left alone")
		assert.Equal(t, "sub_1", sub.ProviderSubscriptionID)
		assert.Equal(t, subscription.PlanBasic, sub.Plan)
		assert.True(t, sub.UpdatedAt.After(before.UpdatedAt))
		assert.True(t, before.CreatedAt.Equal(sub.CreatedAt))
	})

	t.Run("update missing email", func(t *testing.T) {
		store := newStore(t)
		ok, err := store.UpdateByEmail(ctx, "missing@b.com", subscription.SetStatus(subscription.StatusActive))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty update", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{Email: "a@b.com", Plan: subscription.PlanBasic}))
		before, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)

		ok, err := store.UpdateByEmail(ctx, "a@b.com", subscription.Update{})
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	})

	t.Run("invalid update", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, &subscription.Subscription{Email: "a@b.com", Plan: subscription.PlanBasic}))

		_, err := store.UpdateByEmail(ctx, "a@b.com", subscription.SetStatus("paused"))
		assert.ErrorIs(t, err, subscription.ErrInvalidRequest)

		empty := ""
		_, err = store.UpdateByEmail(ctx, "a@b.com", subscription.Update{CustomerID: &empty})
		assert.ErrorIs(t, err, subscription.ErrInvalidRequest)
	})

	t.Run("concurrent creates", func(t *testing.T) {
		store := newStore(t)
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			oks  int
			errs []error
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.Create(ctx, &subscription.Subscription{Email: "race@b.com", Plan: subscription.PlanPro})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					oks++
					return
				}
				errs = append(errs, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, oks)
		for _, err := range errs {
			assert.ErrorIs(t, err, subscription.ErrDuplicateKey)
		}
	})
}
