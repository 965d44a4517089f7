package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/pkg/email"
	"github.com/dmitrymomot/subscriptions/pkg/email/templates"
	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

// EmailNotifier mails the customer when a subscription becomes active or
// is canceled.
type EmailNotifier struct {
	sender  email.Sender
	appURL  string
	log     *slog.Logger
	metrics *Metrics
}

func NewEmailNotifier(sender email.Sender, appURL string, log *slog.Logger, metrics *Metrics) *EmailNotifier {
	if log == nil {
		log = logger.Discard()
	}
	return &EmailNotifier{sender: sender, appURL: appURL, log: log, metrics: metrics}
}

func (n *EmailNotifier) Notify(ctx context.Context, note subscription.Notification) error {
	var (
		tpl     string
		subject string
	)
	switch note.Kind {
	case subscription.NotificationActivated:
		tpl, subject = templates.Activated, fmt.Sprintf("Your %s subscription is active", note.Subscription.Plan)
	case subscription.NotificationCanceled:
		tpl, subject = templates.Canceled, fmt.Sprintf("Your %s subscription was canceled", note.Subscription.Plan)
	default:
		return nil
	}

	body, err := templates.RenderByName(ctx, tpl, templates.Data{
		Email:  note.Subscription.Email,
		Plan:   note.Subscription.Plan.String(),
		AppURL: n.appURL,
	})
	if err != nil {
		n.metrics.email(string(note.Kind), "render_error")
		return fmt.Errorf("render %s email: %w", note.Kind, err)
	}

	err = n.sender.Send(ctx, email.Message{
		To:       note.Subscription.Email,
		Subject:  subject,
		HTMLBody: body,
		Tag:      "subscription-" + string(note.Kind),
	})
	if err != nil {
		n.metrics.email(string(note.Kind), "error")
		return err
	}
	n.metrics.email(string(note.Kind), "sent")
	n.log.DebugContext(ctx, "lifecycle email sent", logger.Email(note.Subscription.Email), slog.String("kind", string(note.Kind)))
	return nil
}
