package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleSignatureHeader carries the Paddle webhook signature.
const PaddleSignatureHeader = "Paddle-Signature"

// Paddle checkout links stay valid for a day.
const paddleCheckoutTTL = 24 * time.Hour

// PaddleTransactions creates Paddle transactions.
type PaddleTransactions interface {
	CreateTransaction(ctx context.Context, req *paddle.CreateTransactionRequest) (*paddle.Transaction, error)
}

// PaddleProvider implements BillingProvider on Paddle Billing transactions.
type PaddleProvider struct {
	transactions PaddleTransactions
	verifier     *paddle.WebhookVerifier
}

// PaddleOption configures PaddleProvider.
type PaddleOption func(*PaddleProvider)

// WithPaddleTransactions replaces the API-backed transaction client.
func WithPaddleTransactions(t PaddleTransactions) PaddleOption {
	return func(p *PaddleProvider) {
		if t != nil {
			p.transactions = t
		}
	}
}

// NewPaddleProvider builds a provider for the sandbox or production API.
func NewPaddleProvider(cfg PaddleConfig, opts ...PaddleOption) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProviderEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("paddle: create client: %w", err)
	}

	p := &PaddleProvider{
		transactions: paddleTransactions{client: client},
		verifier:     paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *PaddleProvider) Name() string { return ProviderPaddle }

func (p *PaddleProvider) SignatureHeader() string { return PaddleSignatureHeader }

// CreateCheckoutSession creates a transaction for the plan price. The
// checkout URL points at the frontend page hosting Paddle.js, which opens
// the transaction; custom data is echoed back in transaction events.
func (p *PaddleProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if params.PriceID == "" {
		return nil, ErrMissingPriceID
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  params.PriceID,
		Quantity: 1,
	})

	custom := paddle.CustomData{}
	for k, v := range params.Metadata {
		custom[k] = v
	}

	req := &paddle.CreateTransactionRequest{
		Items:      []paddle.CreateTransactionItems{*item},
		CustomData: custom,
	}
	if params.CancelURL != "" {
		req.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(params.CancelURL)}
	}

	txn, err := p.transactions.CreateTransaction(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("paddle: create transaction: %w", err)
	}
	if txn == nil || txn.Checkout == nil || txn.Checkout.URL == nil || *txn.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{
		ID:        txn.ID,
		URL:       *txn.Checkout.URL,
		ExpiresAt: time.Now().Add(paddleCheckoutTTL).UTC(),
	}, nil
}

// ParseWebhook verifies the Paddle-Signature header and normalizes the event.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, errors.Join(ErrInvalidSignature, errors.New("missing signature header"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}
	req.Header.Set(PaddleSignatureHeader, signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	return decodePaddleEvent(payload)
}

type paddleEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

type paddleEntity struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	CustomerID     string         `json:"customer_id"`
	SubscriptionID string         `json:"subscription_id"`
	CustomData     map[string]any `json:"custom_data"`
}

func (e paddleEntity) custom(key string) string {
	s, _ := e.CustomData[key].(string)
	return s
}

func decodePaddleEvent(payload []byte) (Event, error) {
	var env paddleEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errors.Join(ErrInvalidRequest, ErrMalformedEvent, err)
	}
	meta := EventMeta{ID: env.EventID, Type: env.EventType}

	var ent paddleEntity
	switch env.EventType {
	case "transaction.completed", "transaction.payment_failed", "subscription.updated", "subscription.canceled":
		if len(env.Data) == 0 {
			return nil, errors.Join(ErrInvalidRequest, ErrMalformedEvent)
		}
		if err := decodeObject(env.Data, &ent); err != nil {
			return nil, err
		}
	default:
		return Ignored{EventMeta: meta, Reason: "unhandled event type"}, nil
	}

	switch env.EventType {
	case "transaction.completed":
		if ent.SubscriptionID == "" {
			return Ignored{EventMeta: meta, Reason: "transaction not tied to a subscription"}, nil
		}
		if email := ent.custom(MetadataEmail); email != "" {
			return CheckoutCompleted{
				EventMeta:      meta,
				Email:          email,
				Plan:           ent.custom(MetadataPlan),
				CustomerID:     ent.CustomerID,
				SubscriptionID: ent.SubscriptionID,
			}, nil
		}
		return InvoicePaid{EventMeta: meta, CustomerID: ent.CustomerID, SubscriptionID: ent.SubscriptionID}, nil

	case "transaction.payment_failed":
		if ent.SubscriptionID == "" {
			return Ignored{EventMeta: meta, Reason: "transaction not tied to a subscription"}, nil
		}
		return InvoicePaymentFailed{EventMeta: meta, CustomerID: ent.CustomerID, SubscriptionID: ent.SubscriptionID}, nil

	case "subscription.updated":
		return SubscriptionUpdated{EventMeta: meta, CustomerID: ent.CustomerID, SubscriptionID: ent.ID, Status: ent.Status}, nil

	default: // subscription.canceled
		return SubscriptionDeleted{EventMeta: meta, CustomerID: ent.CustomerID, SubscriptionID: ent.ID}, nil
	}
}

// paddleTransactions adapts the transactions client of *paddle.SDK.
type paddleTransactions struct {
	client *paddle.SDK
}

func (t paddleTransactions) CreateTransaction(ctx context.Context, req *paddle.CreateTransactionRequest) (*paddle.Transaction, error) {
	return t.client.TransactionsClient.CreateTransaction(ctx, req)
}
