package subscription

import "context"

// EventKind names a normalized webhook event variant.
type EventKind string

const (
	KindCheckoutCompleted    EventKind = "checkout_completed"
	KindInvoicePaid          EventKind = "invoice_paid"
	KindInvoicePaymentFailed EventKind = "invoice_payment_failed"
	KindSubscriptionUpdated  EventKind = "subscription_updated"
	KindSubscriptionDeleted  EventKind = "subscription_deleted"
	KindIgnored              EventKind = "ignored"
)

// EventMeta identifies the provider event a variant was built from.
type EventMeta struct {
	ID   string // provider event id
	Type string // provider event name, e.g. "invoice.paid"
}

func (m EventMeta) Meta() EventMeta { return m }

// Event is a verified, normalized webhook event.
// The set of variants is closed: isEvent keeps other packages from adding
// one, and each variant dispatches to its own EventHandler method, so a new
// variant does not compile until every handler implements it.
type Event interface {
	Meta() EventMeta
	Kind() EventKind
	Dispatch(ctx context.Context, h EventHandler) error
	isEvent()
}

// EventHandler receives normalized events, one method per variant.
type EventHandler interface {
	CheckoutCompleted(ctx context.Context, e CheckoutCompleted) error
	InvoicePaid(ctx context.Context, e InvoicePaid) error
	InvoicePaymentFailed(ctx context.Context, e InvoicePaymentFailed) error
	SubscriptionUpdated(ctx context.Context, e SubscriptionUpdated) error
	SubscriptionDeleted(ctx context.Context, e SubscriptionDeleted) error
	Ignored(ctx context.Context, e Ignored) error
}

// CheckoutCompleted is a finished hosted checkout in subscription mode.
// Email and Plan come from the session metadata; Email falls back to the
// customer email entered on the hosted page.
type CheckoutCompleted struct {
	EventMeta
	Email          string
	Plan           string
	CustomerID     string
	SubscriptionID string
}

func (CheckoutCompleted) isEvent() {}

func (e CheckoutCompleted) Kind() EventKind { return KindCheckoutCompleted }

func (e CheckoutCompleted) Dispatch(ctx context.Context, h EventHandler) error {
	return h.CheckoutCompleted(ctx, e)
}

// InvoicePaid is a successful payment of a subscription invoice.
type InvoicePaid struct {
	EventMeta
	CustomerID     string
	SubscriptionID string
}

func (InvoicePaid) isEvent() {}

func (e InvoicePaid) Kind() EventKind { return KindInvoicePaid }

func (e InvoicePaid) Dispatch(ctx context.Context, h EventHandler) error {
	return h.InvoicePaid(ctx, e)
}

// InvoicePaymentFailed is a failed payment of a subscription invoice.
type InvoicePaymentFailed struct {
	EventMeta
	CustomerID     string
	SubscriptionID string
}

func (InvoicePaymentFailed) isEvent() {}

func (e InvoicePaymentFailed) Kind() EventKind { return KindInvoicePaymentFailed }

func (e InvoicePaymentFailed) Dispatch(ctx context.Context, h EventHandler) error {
	return h.InvoicePaymentFailed(ctx, e)
}

// SubscriptionUpdated carries the provider-reported status verbatim.
type SubscriptionUpdated struct {
	EventMeta
	CustomerID     string
	SubscriptionID string
	Status         string
}

func (SubscriptionUpdated) isEvent() {}

func (e SubscriptionUpdated) Kind() EventKind { return KindSubscriptionUpdated }

func (e SubscriptionUpdated) Dispatch(ctx context.Context, h EventHandler) error {
	return h.SubscriptionUpdated(ctx, e)
}

// SubscriptionDeleted is a subscription ended on the provider side.
type SubscriptionDeleted struct {
	EventMeta
	CustomerID     string
	SubscriptionID string
}

func (SubscriptionDeleted) isEvent() {}

func (e SubscriptionDeleted) Kind() EventKind { return KindSubscriptionDeleted }

func (e SubscriptionDeleted) Dispatch(ctx context.Context, h EventHandler) error {
	return h.SubscriptionDeleted(ctx, e)
}

// Ignored is any event this service does not act on. It is still acknowledged.
type Ignored struct {
	EventMeta
	Reason string
}

func (Ignored) isEvent() {}

func (e Ignored) Kind() EventKind { return KindIgnored }

func (e Ignored) Dispatch(ctx context.Context, h EventHandler) error {
	return h.Ignored(ctx, e)
}
