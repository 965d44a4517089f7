package subscription

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// reconciler applies normalized events to the store.
// Unmet preconditions are logged and acknowledged; store failures are
// returned as ErrProcessing so the provider redelivers.
type reconciler struct {
	*service
	log *slog.Logger
}

var _ EventHandler = (*reconciler)(nil)

func (r *reconciler) CheckoutCompleted(ctx context.Context, e CheckoutCompleted) error {
	if e.Email == "" {
		r.log.WarnContext(ctx, "checkout completed without email, skipping",
			logger.CustomerID(e.CustomerID))
		return nil
	}

	plan, err := ParsePlan(e.Plan)
	if err != nil {
		r.log.WarnContext(ctx, "checkout completed without a valid plan, skipping",
			logger.Email(e.Email), logger.Plan(e.Plan))
		return nil
	}

	u := SetStatus(StatusActive).
		WithCustomerID(e.CustomerID).
		WithSubscriptionID(e.SubscriptionID)

	prev, err := r.store.GetByEmail(ctx, e.Email)
	switch {
	case err == nil:
		return r.apply(ctx, prev, u)
	case !errors.Is(err, ErrNotFound):
		return errors.Join(ErrProcessing, err)
	}

	// No pending record: checkout-time insert was skipped.
	sub := NewPending(e.Email, plan, r.now())
	sub.Apply(u, sub.CreatedAt)
	if err := r.store.Create(ctx, sub); err != nil {
		if !errors.Is(err, ErrDuplicateKey) {
			return errors.Join(ErrProcessing, err)
		}
		// Lost a race with a concurrent insert; update the winner.
		prev, err := r.store.GetByEmail(ctx, e.Email)
		if err != nil {
			return errors.Join(ErrProcessing, err)
		}
		return r.apply(ctx, prev, u)
	}

	r.log.InfoContext(ctx, "subscription created from completed checkout",
		logger.Email(sub.Email), logger.Plan(sub.Plan.String()), logger.Status(sub.Status.String()))
	r.notify(ctx, StatusIncomplete, *sub)
	return nil
}

func (r *reconciler) InvoicePaid(ctx context.Context, e InvoicePaid) error {
	return r.transition(ctx, e.CustomerID, SetStatus(StatusActive))
}

func (r *reconciler) InvoicePaymentFailed(ctx context.Context, e InvoicePaymentFailed) error {
	return r.transition(ctx, e.CustomerID, SetStatus(StatusPastDue))
}

func (r *reconciler) SubscriptionUpdated(ctx context.Context, e SubscriptionUpdated) error {
	status, err := ParseStatus(e.Status)
	if err != nil {
		r.log.WarnContext(ctx, "unsupported subscription status, skipping",
			logger.CustomerID(e.CustomerID), logger.Status(e.Status))
		return nil
	}
	return r.transition(ctx, e.CustomerID, SetStatus(status))
}

func (r *reconciler) SubscriptionDeleted(ctx context.Context, e SubscriptionDeleted) error {
	return r.transition(ctx, e.CustomerID, SetStatus(StatusCanceled))
}

func (r *reconciler) Ignored(ctx context.Context, e Ignored) error {
	r.log.DebugContext(ctx, "webhook event ignored", slog.String("reason", e.Reason))
	return nil
}

// transition applies u to the record owning customerID.
func (r *reconciler) transition(ctx context.Context, customerID string, u Update) error {
	if customerID == "" {
		r.log.WarnContext(ctx, "event without customer id, skipping")
		return nil
	}

	prev, err := r.store.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.log.WarnContext(ctx, "no subscription for customer, skipping", logger.CustomerID(customerID))
			return nil
		}
		return errors.Join(ErrProcessing, err)
	}
	return r.apply(ctx, prev, u)
}

func (r *reconciler) apply(ctx context.Context, prev *Subscription, u Update) error {
	updated, err := r.store.UpdateByEmail(ctx, prev.Email, u)
	if err != nil {
		return errors.Join(ErrProcessing, err)
	}
	if !updated {
		r.log.WarnContext(ctx, "subscription disappeared before update", logger.Email(prev.Email))
		return nil
	}

	next := *prev
	next.Apply(u, r.now())
	r.log.InfoContext(ctx, "subscription updated",
		logger.Email(next.Email),
		logger.Status(next.Status.String()),
		logger.CustomerID(next.ProviderCustomerID),
		logger.SubscriptionID(next.ProviderSubscriptionID),
	)
	r.notify(ctx, prev.Status, next)
	return nil
}

func (r *reconciler) notify(ctx context.Context, prev Status, next Subscription) {
	if r.notifier == nil {
		return
	}
	n, ok := notificationFor(prev, next)
	if !ok {
		return
	}
	// Sent before the webhook is acknowledged; a slow mail API must not
	// push the response past the provider's delivery timeout.
	ctx, cancel := context.WithTimeout(ctx, r.notifyTTL)
	defer cancel()
	if err := r.notifier.Notify(ctx, n); err != nil {
		r.log.WarnContext(ctx, "failed to send subscription notification",
			logger.Email(next.Email), slog.String("kind", string(n.Kind)), logger.Error(err))
	}
}
