package subscription

import "context"

// NotificationKind names a customer-facing lifecycle change.
type NotificationKind string

const (
	NotificationActivated NotificationKind = "activated"
	NotificationCanceled  NotificationKind = "canceled"
)

// Notification is sent after a reconciled event changes a subscription
// into the active or canceled state.
type Notification struct {
	Kind         NotificationKind
	Subscription Subscription
}

// Notifier delivers lifecycle notifications. Delivery is best-effort:
// errors are logged and never fail webhook processing.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// notificationFor returns the notification to send when a record moves
// from prev to next, if any.
func notificationFor(prev Status, next Subscription) (Notification, bool) {
	if prev == next.Status {
		return Notification{}, false
	}
	switch next.Status {
	case StatusActive:
		return Notification{Kind: NotificationActivated, Subscription: next}, true
	case StatusCanceled:
		return Notification{Kind: NotificationCanceled, Subscription: next}, true
	}
	return Notification{}, false
}
