package billing

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/subscriptions/binder"
	"github.com/dmitrymomot/subscriptions/handler"
	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

type checkoutResponse struct {
	URL string `json:"url"`
}

type statusRequest struct {
	Email string `path:"email"`
}

type statusResponse struct {
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type webhookRequest struct {
	Payload   []byte `body:"raw"`
	Signature string
}

type webhookResponse struct {
	Received bool `json:"received"`
}

// Handlers serves the subscription endpoints.
type Handlers struct {
	svc     subscription.Service
	cfg     Config
	log     *slog.Logger
	metrics *Metrics
}

func NewHandlers(svc subscription.Service, cfg Config, log *slog.Logger, metrics *Metrics) *Handlers {
	if log == nil {
		log = logger.Discard()
	}
	return &Handlers{svc: svc, cfg: cfg, log: log.With(logger.Component("billing")), metrics: metrics}
}

func (h *Handlers) Ping() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.JSON(map[string]string{"message": h.cfg.PingMessage})
	})
}

func (h *Handlers) CreateCheckoutSession() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req subscription.CheckoutRequest) handler.Response {
		plan := "invalid"
		if req.Plan.Valid() {
			plan = req.Plan.String()
		}

		session, err := h.svc.CreateCheckout(ctx, req)
		if err != nil {
			h.metrics.checkout(plan, outcome(err))
			return handler.Error(err)
		}
		h.metrics.checkout(plan, "ok")
		return handler.JSON(checkoutResponse{URL: session.URL})
	},
		handler.WithBinders[subscription.CheckoutRequest](binder.JSON(h.cfg.MaxBodyBytes)),
		handler.WithErrorHandler[subscription.CheckoutRequest](
			handler.JSONErrorHandler(h.log, classify("Failed to create checkout session")),
		),
	)
}

func (h *Handlers) SubscriptionStatus(pathParam func(*http.Request, string) string) http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req statusRequest) handler.Response {
		sub, err := h.svc.GetStatus(ctx, req.Email)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(statusResponse{
			Email:     sub.Email,
			Status:    sub.Status.String(),
			Plan:      sub.Plan.String(),
			CreatedAt: sub.CreatedAt,
			UpdatedAt: sub.UpdatedAt,
		})
	},
		handler.WithBinders[statusRequest](binder.Path(pathParam)),
		handler.WithErrorHandler[statusRequest](
			handler.JSONErrorHandler(h.log, classify("Failed to fetch subscription status")),
		),
	)
}

// Webhook acknowledges verified events with {"received": true}.
// Rejected payloads get a plain-text 400 so the provider shows the reason
// in its delivery log; processing failures get a 500 and are redelivered.
func (h *Handlers) Webhook() http.HandlerFunc {
	signature := func(r *http.Request, v any) error {
		v.(*webhookRequest).Signature = r.Header.Get(h.svc.SignatureHeader())
		return nil
	}

	return handler.Wrap(func(ctx handler.Context, req webhookRequest) handler.Response {
		event, err := h.svc.HandleWebhook(ctx, req.Payload, req.Signature)
		kind := "unknown"
		if event != nil {
			kind = string(event.Kind())
		}
		if err != nil {
			h.metrics.webhook(kind, outcome(err))
			return handler.Error(err)
		}
		h.metrics.webhook(kind, "ok")
		return handler.JSON(webhookResponse{Received: true})
	},
		handler.WithBinders[webhookRequest](binder.RawBody(h.cfg.MaxWebhookBytes), signature),
		handler.WithErrorHandler[webhookRequest](h.webhookError),
	)
}

func (h *Handlers) webhookError(ctx handler.Context, err error) {
	w := ctx.ResponseWriter()
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) ||
		errors.Is(err, subscription.ErrInvalidSignature) ||
		errors.Is(err, subscription.ErrInvalidRequest) {
		h.log.WarnContext(ctx, "webhook rejected", logger.Error(err))
		_ = handler.Text(http.StatusBadRequest, fmt.Sprintf("Webhook Error: %v", err)).Render(w, ctx.Request())
		return
	}
	handler.JSONErrorHandler(h.log, classify("Webhook processing failed"))(ctx, err)
}

// classify maps subscription error classes to status codes. Server-side
// failures are reported with fallback so internals never reach the client.
func classify(fallback string) handler.Classifier {
	return func(err error) (int, string) {
		var httpErr handler.HTTPError
		switch {
		case errors.As(err, &httpErr):
			return httpErr.Code, "Invalid request body"
		case errors.Is(err, subscription.ErrNotFound):
			return http.StatusNotFound, "Subscription not found"
		case errors.Is(err, subscription.ErrInvalidRequest), errors.Is(err, subscription.ErrInvalidSignature):
			return http.StatusBadRequest, clientMessage(err)
		}
		return http.StatusInternalServerError, fallback
	}
}

var clientMessages = []struct {
	err error
	msg string
}{
	{subscription.ErrMissingCheckoutFields, "Email and plan are required"},
	{subscription.ErrInvalidPlan, "Invalid plan selected"},
	{subscription.ErrInvalidEmail, "Invalid email address"},
	{subscription.ErrMissingEmail, "Email is required"},
	{subscription.ErrInvalidSignature, "Invalid webhook signature"},
}

func clientMessage(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Invalid request"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, subscription.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, subscription.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, subscription.ErrProviderError):
		return "provider_error"
	case errors.Is(err, subscription.ErrProcessing):
		return "processing_error"
	}
	return "error"
}
