package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

func newService(t *testing.T, provider subscription.BillingProvider, store subscription.Store, opts ...subscription.ServiceOption) subscription.Service {
	t.Helper()
	svc, err := subscription.NewService(testConfig(), provider, store, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Parallel()

	_, err := subscription.NewService(testConfig(), nil, subscription.NewMemoryStore())
	assert.Error(t, err)

	_, err = subscription.NewService(testConfig(), &mockProvider{}, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Stripe.EnterprisePriceID = ""
	_, err = subscription.NewService(cfg, &mockProvider{}, subscription.NewMemoryStore())
	assert.ErrorIs(t, err, subscription.ErrMissingPriceID)
}

func TestService_CreateCheckout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates record and returns url", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		store := subscription.NewMemoryStore()
		svc := newService(t, provider, store)

		want := subscription.CheckoutParams{
			PriceID:    "price_pro",
			Plan:       subscription.PlanPro,
			Email:      "a@b.com",
			SuccessURL: "http://localhost:8080/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:  "http://localhost:8080/",
			Metadata:   map[string]string{"email": "a@b.com", "plan": "Pro"},
		}
		provider.On("CreateCheckoutSession", mock.Anything, want).
			Return(&subscription.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil).Once()

		session, err := svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanPro})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.test/cs_1", session.URL)

		sub, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanPro, sub.Plan)
		assert.Equal(t, subscription.StatusIncomplete, sub.Status)
		assert.Empty(t, sub.ProviderCustomerID)
		provider.AssertExpectations(t)
	})

	t.Run("two checkouts create one record", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		store := subscription.NewMemoryStore()
		svc := newService(t, provider, store)

		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&subscription.CheckoutSession{ID: "cs", URL: "https://checkout.test/cs"}, nil).Twice()

		_, err := svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanBasic})
		require.NoError(t, err)
		_, err = svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanEnterprise})
		require.NoError(t, err)

		sub, err := store.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanBasic, sub.Plan)
		provider.AssertNumberOfCalls(t, "CreateCheckoutSession", 2)
	})

	t.Run("invalid requests never reach provider", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		store := subscription.NewMemoryStore()
		svc := newService(t, provider, store)

		tests := []struct {
			req  subscription.CheckoutRequest
			want error
		}{
			{subscription.CheckoutRequest{Plan: subscription.PlanPro}, subscription.ErrMissingCheckoutFields},
			{subscription.CheckoutRequest{Email: "a@b.com", Plan: "Gold"}, subscription.ErrInvalidPlan},
			{subscription.CheckoutRequest{Email: "nope", Plan: subscription.PlanPro}, subscription.ErrInvalidEmail},
		}
		for _, tt := range tests {
			_, err := svc.CreateCheckout(ctx, tt.req)
			assert.ErrorIs(t, err, subscription.ErrInvalidRequest)
			assert.ErrorIs(t, err, tt.want)
		}

		provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
		_, err := store.GetByEmail(ctx, "a@b.com")
		assert.ErrorIs(t, err, subscription.ErrNotFound)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		store := subscription.NewMemoryStore()
		svc := newService(t, provider, store)

		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(nil, errors.New("card_declined")).Once()

		session, err := svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanPro})
		assert.Nil(t, session)
		assert.ErrorIs(t, err, subscription.ErrProviderError)

		_, err = store.GetByEmail(ctx, "a@b.com")
		assert.NoError(t, err, "record is created before the provider call")
	})

	t.Run("provider returns no url", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		svc := newService(t, provider, subscription.NewMemoryStore())

		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&subscription.CheckoutSession{ID: "cs_1"}, nil).Once()

		session, err := svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanPro})
		assert.Nil(t, session)
		assert.ErrorIs(t, err, subscription.ErrProviderError)
		assert.ErrorIs(t, err, subscription.ErrNoCheckoutURL)
	})

	t.Run("store outage does not block checkout", func(t *testing.T) {
		t.Parallel()
		provider := &mockProvider{}
		svc := newService(t, provider, brokenStore{})

		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&subscription.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil).Once()

		session, err := svc.CreateCheckout(ctx, subscription.CheckoutRequest{Email: "a@b.com", Plan: subscription.PlanPro})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.test/cs_1", session.URL)
	})
}

func TestService_GetStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := subscription.NewMemoryStore()
	require.NoError(t, store.Create(ctx, subscription.NewPending("a@b.com", subscription.PlanEnterprise, created)))
	svc := newService(t, &mockProvider{}, store)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		sub, err := svc.GetStatus(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, subscription.PlanEnterprise, sub.Plan)
		assert.Equal(t, subscription.StatusIncomplete, sub.Status)
		assert.Equal(t, created, sub.CreatedAt)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GetStatus(ctx, "missing@b.com")
		assert.ErrorIs(t, err, subscription.ErrNotFound)
	})

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GetStatus(ctx, "  ")
		assert.ErrorIs(t, err, subscription.ErrInvalidRequest)
		assert.ErrorIs(t, err, subscription.ErrMissingEmail)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		broken := newService(t, &mockProvider{}, brokenStore{})
		_, err := broken.GetStatus(ctx, "a@b.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, subscription.ErrNotFound)
		assert.ErrorIs(t, err, subscription.ErrStoreUnavailable)
	})
}
