package subscription

import (
	"context"
	"time"
)

// Metadata keys embedded in checkout sessions to correlate webhook events
// back to the local record.
const (
	MetadataEmail = "email"
	MetadataPlan  = "plan"
)

// BillingProvider is the payment processor integration.
// Implementations are constructed explicitly and injected into the Service.
type BillingProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// SignatureHeader is the HTTP header carrying the webhook signature.
	SignatureHeader() string

	// CreateCheckoutSession creates a hosted checkout page in subscription mode.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// ParseWebhook verifies the payload signature with the shared secret and
	// normalizes the event. Verification failures must wrap ErrInvalidSignature
	// and happen before the payload is decoded.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error)
}

// CheckoutParams contains data needed to create a hosted checkout session.
type CheckoutParams struct {
	PriceID    string // provider's price identifier for the plan
	Plan       Plan
	Email      string // pre-filled customer email
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string // opaque correlation data echoed back in events
}

// CheckoutSession is a hosted, time-limited checkout page.
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}
