// Package subscription implements plan checkout and webhook reconciliation
// against a hosted payment provider.
//
// A visitor selects a plan; Service.CreateCheckout makes sure a pending
// record exists for their email and returns the provider's hosted checkout
// URL. The provider later posts signed events, which Service.HandleWebhook
// verifies, normalizes into a closed set of Event variants and applies to
// the Store. Service.GetStatus reads the resulting record.
//
// # Providers
//
// BillingProvider is injected into the service. StripeProvider uses Stripe
// Checkout in subscription mode; PaddleProvider creates Paddle Billing
// transactions. NewProvider builds the one named by Config.Provider.
//
// # Events
//
// Every verified payload becomes one of CheckoutCompleted, InvoicePaid,
// InvoicePaymentFailed, SubscriptionUpdated, SubscriptionDeleted or Ignored.
// Each variant dispatches to its own EventHandler method.
//
// Status transitions:
//
//	CheckoutCompleted     -> active (records customer and subscription ids)
//	InvoicePaid           -> active
//	InvoicePaymentFailed  -> past_due
//	SubscriptionUpdated   -> provider status, if known
//	SubscriptionDeleted   -> canceled
//
// Events whose preconditions are not met (unknown customer, missing email,
// unsupported status) are logged and acknowledged. Store failures return
// ErrProcessing so the provider redelivers. There is no event id
// deduplication: each transition is an assignment, so redelivery is harmless.
//
// # Errors
//
// Returned errors are joined with one of the class sentinels
// (ErrInvalidRequest, ErrNotFound, ErrInvalidSignature, ErrProviderError,
// ErrProcessing) so callers can map them with errors.Is.
//
// # Stores
//
// NewMemoryStore keeps records in a map. The pgstore and sqlitestore
// subpackages persist them in PostgreSQL and SQLite.
package subscription
