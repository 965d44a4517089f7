package subscription_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

var errStoreDown = errors.New("connection refused")

func testConfig() subscription.Config {
	return subscription.Config{
		Provider:    subscription.ProviderStripe,
		FrontendURL: "http://localhost:8080",
		Stripe: subscription.StripeConfig{
			BasicPriceID:      "price_basic",
			ProPriceID:        "price_pro",
			EnterprisePriceID: "price_enterprise",
		},
	}
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) SignatureHeader() string { return "X-Mock-Signature" }

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params subscription.CheckoutParams) (*subscription.CheckoutSession, error) {
	args := m.Called(ctx, params)
	s, _ := args.Get(0).(*subscription.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (subscription.Event, error) {
	args := m.Called(ctx, payload, signature)
	e, _ := args.Get(0).(subscription.Event)
	return e, args.Error(1)
}

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Create(context.Context, *subscription.Subscription) error {
	return errors.Join(subscription.ErrStoreUnavailable, errStoreDown)
}

func (brokenStore) UpdateByEmail(context.Context, string, subscription.Update) (bool, error) {
	return false, errors.Join(subscription.ErrStoreUnavailable, errStoreDown)
}

func (brokenStore) GetByEmail(context.Context, string) (*subscription.Subscription, error) {
	return nil, errors.Join(subscription.ErrStoreUnavailable, errStoreDown)
}

func (brokenStore) GetByCustomerID(context.Context, string) (*subscription.Subscription, error) {
	return nil, errors.Join(subscription.ErrStoreUnavailable, errStoreDown)
}

// recordingNotifier collects notifications and optionally fails.
type recordingNotifier struct {
	sent []subscription.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, note subscription.Notification) error {
	n.sent = append(n.sent, note)
	return n.err
}
