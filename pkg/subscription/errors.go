package subscription

import "errors"

// Error classes. Callers classify with errors.Is; concrete failures are
// joined with one of these so the transport layer can pick a status code.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNotFound         = errors.New("subscription not found")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrProviderError    = errors.New("billing provider error")
	ErrProcessing       = errors.New("webhook processing failed")
	ErrStoreUnavailable = errors.New("subscription store unavailable")
	ErrDuplicateKey     = errors.New("subscription already exists")
)

var (
	ErrMissingCheckoutFields = errors.New("email and plan are required")
	ErrInvalidPlan           = errors.New("invalid plan selected")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrMissingEmail          = errors.New("email is required")
	ErrUnknownStatus         = errors.New("unknown subscription status")
	ErrEmptyIdentifier       = errors.New("provider identifiers cannot be cleared")
	ErrNoCheckoutURL         = errors.New("no checkout URL returned from provider")
	ErrMissingPriceID        = errors.New("price ID is required")
	ErrMalformedEvent        = errors.New("malformed webhook event")

	ErrMissingAPIKey              = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret       = errors.New("billing provider webhook secret is required")
	ErrInvalidProviderEnvironment = errors.New("invalid billing provider environment")
	ErrUnsupportedProvider        = errors.New("unsupported billing provider")
)
