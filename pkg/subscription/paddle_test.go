package subscription

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactions struct {
	req *paddle.CreateTransactionRequest
	txn *paddle.Transaction
	err error
}

func (f *fakeTransactions) CreateTransaction(_ context.Context, req *paddle.CreateTransactionRequest) (*paddle.Transaction, error) {
	f.req = req
	return f.txn, f.err
}

const paddleSecret = "pdl_ntfset_test"

func newPaddle(t *testing.T, txns *fakeTransactions) *PaddleProvider {
	t.Helper()
	p, err := NewPaddleProvider(
		PaddleConfig{APIKey: "pdl_sdbx_apikey_test", WebhookSecret: paddleSecret, Environment: "sandbox"},
		WithPaddleTransactions(txns),
	)
	require.NoError(t, err)
	return p
}

func signPaddle(payload, secret string) string {
	ts := fmt.Sprint(time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + ":" + payload))
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestPaddleProvider_CreateCheckoutSession(t *testing.T) {
	t.Parallel()

	t.Run("creates transaction", func(t *testing.T) {
		t.Parallel()
		txns := &fakeTransactions{txn: &paddle.Transaction{
			ID:       "txn_1",
			Checkout: &paddle.TransactionCheckout{URL: paddle.PtrTo("http://localhost:8080/?_ptxn=txn_1")},
		}}
		p := newPaddle(t, txns)

		session, err := p.CreateCheckoutSession(context.Background(), CheckoutParams{
			PriceID:   "pri_pro",
			Email:     "a@b.com",
			CancelURL: "http://localhost:8080/",
			Metadata:  map[string]string{MetadataEmail: "a@b.com", MetadataPlan: "Pro"},
		})
		require.NoError(t, err)
		assert.Equal(t, "txn_1", session.ID)
		assert.Equal(t, "http://localhost:8080/?_ptxn=txn_1", session.URL)
		assert.True(t, session.ExpiresAt.After(time.Now()))

		require.NotNil(t, txns.req)
		require.Len(t, txns.req.Items, 1)
		assert.Equal(t, "a@b.com", txns.req.CustomData[MetadataEmail])
		assert.Equal(t, "Pro", txns.req.CustomData[MetadataPlan])
		require.NotNil(t, txns.req.Checkout)
		assert.Equal(t, "http://localhost:8080/", *txns.req.Checkout.URL)
	})

	t.Run("no checkout url", func(t *testing.T) {
		t.Parallel()
		p := newPaddle(t, &fakeTransactions{txn: &paddle.Transaction{ID: "txn_1"}})
		_, err := p.CreateCheckoutSession(context.Background(), CheckoutParams{PriceID: "pri_pro"})
		assert.ErrorIs(t, err, ErrNoCheckoutURL)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		p := newPaddle(t, &fakeTransactions{err: errors.New("forbidden")})
		_, err := p.CreateCheckoutSession(context.Background(), CheckoutParams{PriceID: "pri_pro"})
		assert.ErrorContains(t, err, "forbidden")
	})
}

func TestDecodePaddleEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    Event
	}{
		{
			name:    "completed checkout transaction",
			payload: `{"event_id":"evt_1","event_type":"transaction.completed","data":{"id":"txn_1","status":"completed","customer_id":"ctm_1","subscription_id":"sub_1","custom_data":{"email":"a@b.com","plan":"Pro"}}}`,
			want: CheckoutCompleted{
				EventMeta:      EventMeta{ID: "evt_1", Type: "transaction.completed"},
				Email:          "a@b.com",
				Plan:           "Pro",
				CustomerID:     "ctm_1",
				SubscriptionID: "sub_1",
			},
		},
		{
			name:    "renewal transaction",
			payload: `{"event_id":"evt_2","event_type":"transaction.completed","data":{"id":"txn_2","customer_id":"ctm_1","subscription_id":"sub_1","custom_data":null}}`,
			want: InvoicePaid{
				EventMeta:      EventMeta{ID: "evt_2", Type: "transaction.completed"},
				CustomerID:     "ctm_1",
				SubscriptionID: "sub_1",
			},
		},
		{
			name:    "one-off transaction",
			payload: `{"event_id":"evt_3","event_type":"transaction.completed","data":{"id":"txn_3","customer_id":"ctm_1"}}`,
			want: Ignored{
				EventMeta: EventMeta{ID: "evt_3", Type: "transaction.completed"},
				Reason:    "transaction not tied to a subscription",
			},
		},
		{
			name:    "payment failed",
			payload: `{"event_id":"evt_4","event_type":"transaction.payment_failed","data":{"id":"txn_4","customer_id":"ctm_1","subscription_id":"sub_1"}}`,
			want: InvoicePaymentFailed{
				EventMeta:      EventMeta{ID: "evt_4", Type: "transaction.payment_failed"},
				CustomerID:     "ctm_1",
				SubscriptionID: "sub_1",
			},
		},
		{
			name:    "subscription updated",
			payload: `{"event_id":"evt_5","event_type":"subscription.updated","data":{"id":"sub_1","status":"paused","customer_id":"ctm_1"}}`,
			want: SubscriptionUpdated{
				EventMeta:      EventMeta{ID: "evt_5", Type: "subscription.updated"},
				CustomerID:     "ctm_1",
				SubscriptionID: "sub_1",
				Status:         "paused",
			},
		},
		{
			name:    "subscription canceled",
			payload: `{"event_id":"evt_6","event_type":"subscription.canceled","data":{"id":"sub_1","status":"canceled","customer_id":"ctm_1"}}`,
			want: SubscriptionDeleted{
				EventMeta:      EventMeta{ID: "evt_6", Type: "subscription.canceled"},
				CustomerID:     "ctm_1",
				SubscriptionID: "sub_1",
			},
		},
		{
			name:    "unhandled",
			payload: `{"event_id":"evt_7","event_type":"customer.created","data":{"id":"ctm_1"}}`,
			want: Ignored{
				EventMeta: EventMeta{ID: "evt_7", Type: "customer.created"},
				Reason:    "unhandled event type",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := decodePaddleEvent([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, payload := range []string{
			`not json`,
			`{"event_id":"evt_8","event_type":"subscription.updated"}`,
			`{"event_id":"evt_9","event_type":"subscription.updated","data":{"id":7}}`,
		} {
			_, err := decodePaddleEvent([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalidRequest, payload)
			assert.ErrorIs(t, err, ErrMalformedEvent, payload)
		}
	})
}

func TestPaddleProvider_ParseWebhook(t *testing.T) {
	t.Parallel()

	p := newPaddle(t, &fakeTransactions{})
	payload := `{"event_id":"evt_1","event_type":"subscription.canceled","data":{"id":"sub_1","customer_id":"ctm_1"}}`

	t.Run("valid signature", func(t *testing.T) {
		t.Parallel()
		event, err := p.ParseWebhook(context.Background(), []byte(payload), signPaddle(payload, paddleSecret))
		require.NoError(t, err)
		assert.Equal(t, KindSubscriptionDeleted, event.Kind())
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		_, err := p.ParseWebhook(context.Background(), []byte(payload), signPaddle(payload, "pdl_ntfset_other"))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		_, err := p.ParseWebhook(context.Background(), []byte(payload), "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
