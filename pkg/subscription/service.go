package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// Service is the subscription core: checkout initiation, webhook
// reconciliation and status lookup over a single Store.
type Service interface {
	// CreateCheckout validates the request, makes sure a local record exists
	// and returns the provider's hosted checkout session.
	// The returned session always carries a URL.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// HandleWebhook verifies and applies a provider event.
	// The returned event is nil when verification or decoding failed.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (Event, error)

	// GetStatus returns the record for email.
	GetStatus(ctx context.Context, email string) (*Subscription, error)

	// SignatureHeader is the header the provider signs webhooks in.
	SignatureHeader() string
}

const defaultNotifyTimeout = 5 * time.Second

type service struct {
	provider   BillingProvider
	store      Store
	prices     PriceIDs
	successURL string
	cancelURL  string
	notifier   Notifier
	notifyTTL  time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the lifecycle notifier. Without one nothing is sent.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *service) { s.notifier = n }
}

// WithNotifyTimeout bounds each Notify call. Non-positive values are ignored.
func WithNotifyTimeout(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.notifyTTL = d
		}
	}
}

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the core. Every plan must have a price id for the
// selected provider.
func NewService(cfg Config, provider BillingProvider, store Store, opts ...ServiceOption) (Service, error) {
	if provider == nil {
		return nil, errors.New("subscription: billing provider is required")
	}
	if store == nil {
		return nil, errors.New("subscription: store is required")
	}
	prices := cfg.Prices()
	if err := prices.Validate(); err != nil {
		return nil, fmt.Errorf("subscription: %w", err)
	}

	s := &service{
		provider:   provider,
		store:      store,
		prices:     prices,
		successURL: cfg.SuccessURL(),
		cancelURL:  cfg.CancelURL(),
		notifyTTL:  defaultNotifyTimeout,
		logger:     logger.Discard(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	if cfg.NotifyTimeout > 0 {
		s.notifyTTL = cfg.NotifyTimeout
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("subscription"), logger.Provider(provider.Name()))
	return s, nil
}

func (s *service) SignatureHeader() string { return s.provider.SignatureHeader() }

func (s *service) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}

	priceID, err := s.prices.Lookup(req.Plan)
	if err != nil {
		return nil, errors.Join(ErrProviderError, err)
	}

	s.ensureRecord(ctx, req)

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:    priceID,
		Plan:       req.Plan,
		Email:      req.Email,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata: map[string]string{
			MetadataEmail: req.Email,
			MetadataPlan:  req.Plan.String(),
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create checkout session",
			logger.Email(req.Email), logger.Plan(req.Plan.String()), logger.Error(err))
		return nil, errors.Join(ErrProviderError, err)
	}
	if session == nil || session.URL == "" {
		return nil, errors.Join(ErrProviderError, ErrNoCheckoutURL)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		logger.Email(req.Email), logger.Plan(req.Plan.String()), slog.String("session_id", session.ID))
	return session, nil
}

// ensureRecord creates the pending record when missing.
// Store failures do not block checkout: the completed event creates the
// record later if this insert was skipped.
func (s *service) ensureRecord(ctx context.Context, req CheckoutRequest) {
	_, err := s.store.GetByEmail(ctx, req.Email)
	if err == nil {
		return
	}
	if errors.Is(err, ErrNotFound) {
		err = s.store.Create(ctx, NewPending(req.Email, req.Plan, s.now()))
		if err == nil || errors.Is(err, ErrDuplicateKey) {
			return
		}
	}
	s.logger.WarnContext(ctx, "subscription store unavailable, continuing checkout",
		logger.Email(req.Email), logger.Error(err))
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Event, error) {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			s.logger.WarnContext(ctx, "webhook signature verification failed", logger.Error(err))
			return nil, err
		}
		if !errors.Is(err, ErrInvalidRequest) {
			err = errors.Join(ErrInvalidRequest, err)
		}
		s.logger.WarnContext(ctx, "malformed webhook payload", logger.Error(err))
		return nil, err
	}

	meta := event.Meta()
	log := s.logger.With(logger.EventID(meta.ID), logger.EventType(meta.Type))
	log.DebugContext(ctx, "webhook received", slog.String("kind", string(event.Kind())))

	if err := event.Dispatch(ctx, &reconciler{service: s, log: log}); err != nil {
		log.ErrorContext(ctx, "webhook processing failed", logger.Error(err))
		return event, err
	}
	return event, nil
}

func (s *service) GetStatus(ctx context.Context, email string) (*Subscription, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.Join(ErrInvalidRequest, ErrMissingEmail)
	}

	sub, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subscription status: %w", err)
	}
	return sub, nil
}
