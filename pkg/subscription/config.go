package subscription

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported billing providers.
const (
	ProviderStripe = "stripe"
	ProviderPaddle = "paddle"
)

// Config selects the billing provider and carries checkout settings.
type Config struct {
	Provider    string `env:"BILLING_PROVIDER" envDefault:"stripe"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:8080"`

	// NotifyTimeout bounds a lifecycle notification sent while a webhook is handled.
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`

	Stripe StripeConfig
	Paddle PaddleConfig
}

// StripeConfig holds Stripe credentials and the price id of each plan.
type StripeConfig struct {
	SecretKey         string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret     string `env:"STRIPE_WEBHOOK_SECRET"`
	BasicPriceID      string `env:"STRIPE_BASIC_PRICE_ID" envDefault:"price_basic"`
	ProPriceID        string `env:"STRIPE_PRO_PRICE_ID" envDefault:"price_pro"`
	EnterprisePriceID string `env:"STRIPE_ENTERPRISE_PRICE_ID" envDefault:"price_enterprise"`
}

func (c StripeConfig) Prices() PriceIDs {
	return PriceIDs{
		PlanBasic:      c.BasicPriceID,
		PlanPro:        c.ProPriceID,
		PlanEnterprise: c.EnterprisePriceID,
	}
}

// PaddleConfig holds Paddle Billing credentials and the price id of each plan.
type PaddleConfig struct {
	APIKey            string `env:"PADDLE_API_KEY"`
	WebhookSecret     string `env:"PADDLE_WEBHOOK_SECRET"`
	Environment       string `env:"PADDLE_ENVIRONMENT" envDefault:"sandbox"`
	BasicPriceID      string `env:"PADDLE_BASIC_PRICE_ID"`
	ProPriceID        string `env:"PADDLE_PRO_PRICE_ID"`
	EnterprisePriceID string `env:"PADDLE_ENTERPRISE_PRICE_ID"`
}

func (c PaddleConfig) Prices() PriceIDs {
	return PriceIDs{
		PlanBasic:      c.BasicPriceID,
		PlanPro:        c.ProPriceID,
		PlanEnterprise: c.EnterprisePriceID,
	}
}

// Prices returns the price table of the selected provider.
func (c Config) Prices() PriceIDs {
	if strings.EqualFold(c.Provider, ProviderPaddle) {
		return c.Paddle.Prices()
	}
	return c.Stripe.Prices()
}

// SuccessURL is where the hosted checkout redirects after payment.
// The provider substitutes {CHECKOUT_SESSION_ID} with the session id.
func (c Config) SuccessURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is where the hosted checkout redirects when the visitor backs out.
func (c Config) CancelURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/"
}

// PriceIDs maps each plan to the provider's price identifier.
type PriceIDs map[Plan]string

// Lookup returns the price id configured for plan.
func (p PriceIDs) Lookup(plan Plan) (string, error) {
	if !plan.Valid() {
		return "", ErrInvalidPlan
	}
	id := p[plan]
	if id == "" {
		return "", fmt.Errorf("%w: plan %s", ErrMissingPriceID, plan)
	}
	return id, nil
}

// Validate reports every plan lacking a price id.
func (p PriceIDs) Validate() error {
	var errs []error
	for _, plan := range Plans {
		if _, err := p.Lookup(plan); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewProvider constructs the provider named by cfg.Provider.
func NewProvider(cfg Config) (BillingProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderStripe, "":
		return NewStripeProvider(cfg.Stripe)
	case ProviderPaddle:
		return NewPaddleProvider(cfg.Paddle)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
