// Package pgstore persists subscriptions in PostgreSQL through pgx.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/subscriptions/pkg/pg"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the goose migrations for the subscriptions table.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	db DB
}

// New returns a subscription.Store backed by db.
func New(db DB) subscription.Store {
	return &store{db: db}
}

const columns = `email, plan, status, provider_customer_id, provider_subscription_id, created_at, updated_at`

func (s *store) Create(ctx context.Context, sub *subscription.Subscription) error {
	status := sub.Status
	if status == "" {
		status = subscription.StatusIncomplete
	}
	now := time.Now().UTC()
	created, updated := sub.CreatedAt, sub.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO subscriptions (`+columns+`)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		sub.Email, string(sub.Plan), string(status),
		sub.ProviderCustomerID, sub.ProviderSubscriptionID,
		created, updated,
	)
	return mapError(err)
}

func (s *store) UpdateByEmail(ctx context.Context, email string, u subscription.Update) (bool, error) {
	if u.IsEmpty() {
		return false, nil
	}
	if err := u.Validate(); err != nil {
		return false, err
	}

	var status *string
	if u.Status != nil {
		v := string(*u.Status)
		status = &v
	}

	// COALESCE keeps columns the update leaves unset.
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions SET
		    provider_customer_id     = COALESCE($2::text, provider_customer_id),
		    provider_subscription_id = COALESCE($3::text, provider_subscription_id),
		    status                   = COALESCE($4::text, status),
		    updated_at               = now()
		 WHERE email = $1`,
		email, u.CustomerID, u.SubscriptionID, status,
	)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *store) GetByEmail(ctx context.Context, email string) (*subscription.Subscription, error) {
	return s.get(ctx, `SELECT `+columns+` FROM subscriptions WHERE email = $1`, email)
}

func (s *store) GetByCustomerID(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	if customerID == "" {
		return nil, subscription.ErrNotFound
	}
	return s.get(ctx, `SELECT `+columns+` FROM subscriptions WHERE provider_customer_id = $1 LIMIT 1`, customerID)
}

func (s *store) get(ctx context.Context, query string, arg string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var plan, status string
	var customerID, subID *string
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&sub.Email, &plan, &status, &customerID, &subID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	sub.Plan = subscription.Plan(plan)
	sub.Status = subscription.Status(status)
	if customerID != nil {
		sub.ProviderCustomerID = *customerID
	}
	if subID != nil {
		sub.ProviderSubscriptionID = *subID
	}
	sub.CreatedAt = sub.CreatedAt.UTC()
	sub.UpdatedAt = sub.UpdatedAt.UTC()
	return &sub, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFoundError(err):
		return subscription.ErrNotFound
	case pg.IsDuplicateKeyError(err):
		return errors.Join(subscription.ErrDuplicateKey, err)
	case pg.IsCheckViolationError(err):
		return errors.Join(subscription.ErrInvalidRequest, err)
	default:
		return errors.Join(subscription.ErrStoreUnavailable, err)
	}
}
