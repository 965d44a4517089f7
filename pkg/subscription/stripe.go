package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeSignatureHeader carries the Stripe webhook signature.
const StripeSignatureHeader = "Stripe-Signature"

// StripeCheckoutSessions creates hosted checkout sessions.
// *stripe.Client satisfies it through NewStripeProvider; tests pass a double.
type StripeCheckoutSessions interface {
	Create(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
}

// StripeProvider implements BillingProvider on Stripe Checkout and webhooks.
type StripeProvider struct {
	sessions      StripeCheckoutSessions
	webhookSecret string
}

// StripeOption configures StripeProvider.
type StripeOption func(*StripeProvider)

// WithStripeCheckoutSessions replaces the API-backed session creator.
func WithStripeCheckoutSessions(c StripeCheckoutSessions) StripeOption {
	return func(p *StripeProvider) {
		if c != nil {
			p.sessions = c
		}
	}
}

// NewStripeProvider builds a provider from credentials.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	p := &StripeProvider{
		sessions:      stripeSessions{client: stripe.NewClient(cfg.SecretKey, nil)},
		webhookSecret: cfg.WebhookSecret,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *StripeProvider) Name() string { return ProviderStripe }

func (p *StripeProvider) SignatureHeader() string { return StripeSignatureHeader }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if params.PriceID == "" {
		return nil, ErrMissingPriceID
	}

	req := &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Metadata:   params.Metadata,
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: params.Metadata,
		},
	}
	if params.Email != "" {
		req.CustomerEmail = stripe.String(params.Email)
	}

	session, err := p.sessions.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	if session == nil || session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	out := &CheckoutSession{ID: session.ID, URL: session.URL}
	if session.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(session.ExpiresAt, 0).UTC()
	}
	return out, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the event.
// The API version check is skipped: only the fields decoded below are read.
func (p *StripeProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, errors.Join(ErrInvalidSignature, errors.New("missing signature header"))
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, errors.Join(ErrInvalidRequest, ErrMalformedEvent)
	}

	return decodeStripeEvent(EventMeta{ID: event.ID, Type: string(event.Type)}, event.Data.Raw)
}

func decodeStripeEvent(meta EventMeta, raw json.RawMessage) (Event, error) {
	switch stripe.EventType(meta.Type) {
	case stripe.EventTypeCheckoutSessionCompleted:
		var s stripeCheckoutObject
		if err := decodeObject(raw, &s); err != nil {
			return nil, err
		}
		if s.Mode != string(stripe.CheckoutSessionModeSubscription) {
			return Ignored{EventMeta: meta, Reason: "checkout session not in subscription mode"}, nil
		}
		email := s.Metadata[MetadataEmail]
		if email == "" {
			email = s.CustomerEmail
		}
		if email == "" && s.CustomerDetails != nil {
			email = s.CustomerDetails.Email
		}
		return CheckoutCompleted{
			EventMeta:      meta,
			Email:          email,
			Plan:           s.Metadata[MetadataPlan],
			CustomerID:     string(s.Customer),
			SubscriptionID: string(s.Subscription),
		}, nil

	case stripe.EventTypeInvoicePaid, stripe.EventTypeInvoicePaymentFailed:
		var inv stripeInvoiceObject
		if err := decodeObject(raw, &inv); err != nil {
			return nil, err
		}
		subID := inv.subscriptionID()
		if subID == "" {
			return Ignored{EventMeta: meta, Reason: "invoice not tied to a subscription"}, nil
		}
		if meta.Type == string(stripe.EventTypeInvoicePaymentFailed) {
			return InvoicePaymentFailed{EventMeta: meta, CustomerID: string(inv.Customer), SubscriptionID: subID}, nil
		}
		return InvoicePaid{EventMeta: meta, CustomerID: string(inv.Customer), SubscriptionID: subID}, nil

	case stripe.EventTypeCustomerSubscriptionUpdated:
		var sub stripeSubscriptionObject
		if err := decodeObject(raw, &sub); err != nil {
			return nil, err
		}
		return SubscriptionUpdated{
			EventMeta:      meta,
			CustomerID:     string(sub.Customer),
			SubscriptionID: sub.ID,
			Status:         sub.Status,
		}, nil

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripeSubscriptionObject
		if err := decodeObject(raw, &sub); err != nil {
			return nil, err
		}
		return SubscriptionDeleted{EventMeta: meta, CustomerID: string(sub.Customer), SubscriptionID: sub.ID}, nil
	}

	return Ignored{EventMeta: meta, Reason: "unhandled event type"}, nil
}

func decodeObject(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrInvalidRequest, ErrMalformedEvent, err)
	}
	return nil
}

// stripeID accepts either an object id or an expanded object.
type stripeID string

func (id *stripeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = stripeID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*id = stripeID(obj.ID)
	return nil
}

type stripeCheckoutObject struct {
	ID              string            `json:"id"`
	Mode            string            `json:"mode"`
	Customer        stripeID          `json:"customer"`
	Subscription    stripeID          `json:"subscription"`
	CustomerEmail   string            `json:"customer_email"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type stripeInvoiceObject struct {
	ID           string   `json:"id"`
	Customer     stripeID `json:"customer"`
	Subscription stripeID `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription stripeID `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

// subscriptionID reads the legacy top-level field and the newer
// parent.subscription_details location.
func (inv stripeInvoiceObject) subscriptionID() string {
	if inv.Subscription != "" {
		return string(inv.Subscription)
	}
	if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil {
		return string(inv.Parent.SubscriptionDetails.Subscription)
	}
	return ""
}

type stripeSubscriptionObject struct {
	ID       string   `json:"id"`
	Customer stripeID `json:"customer"`
	Status   string   `json:"status"`
}

// stripeSessions adapts the v1 checkout session service of *stripe.Client.
type stripeSessions struct {
	client *stripe.Client
}

func (s stripeSessions) Create(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	return s.client.V1CheckoutSessions.Create(ctx, params)
}
