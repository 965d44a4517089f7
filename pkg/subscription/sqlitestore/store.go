// Package sqlitestore persists subscriptions in SQLite.
// Timestamps are stored as unix milliseconds.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/dmitrymomot/subscriptions/pkg/sqlite"
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

type store struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a subscription.Store backed by db.
func New(db *sql.DB) subscription.Store {
	return &store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const columns = `email, plan, status, provider_customer_id, provider_subscription_id, created_at, updated_at`

func (s *store) Create(ctx context.Context, sub *subscription.Subscription) error {
	status := sub.Status
	if status == "" {
		status = subscription.StatusIncomplete
	}
	created, updated := sub.CreatedAt, sub.UpdatedAt
	if created.IsZero() {
		created = s.now()
	}
	if updated.IsZero() {
		updated = created
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+columns+`)
		 VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?)`,
		sub.Email, string(sub.Plan), string(status),
		sub.ProviderCustomerID, sub.ProviderSubscriptionID,
		created.UnixMilli(), updated.UnixMilli(),
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

	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET
		    provider_customer_id     = COALESCE(?, provider_customer_id),
		    provider_subscription_id = COALESCE(?, provider_subscription_id),
		    status                   = COALESCE(?, status),
		    updated_at               = ?
		 WHERE email = ?`,
		nullable(u.CustomerID), nullable(u.SubscriptionID), nullableStatus(u.Status),
		s.now().UnixMilli(), email,
	)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return n > 0, nil
}

func (s *store) GetByEmail(ctx context.Context, email string) (*subscription.Subscription, error) {
	return s.get(ctx, `SELECT `+columns+` FROM subscriptions WHERE email = ?`, email)
}

func (s *store) GetByCustomerID(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	if customerID == "" {
		return nil, subscription.ErrNotFound
	}
	return s.get(ctx, `SELECT `+columns+` FROM subscriptions WHERE provider_customer_id = ? LIMIT 1`, customerID)
}

func (s *store) get(ctx context.Context, query, arg string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var plan, status string
	var customerID, subID sql.NullString
	var created, updated int64

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&sub.Email, &plan, &status, &customerID, &subID, &created, &updated,
	)
	if err != nil {
		return nil, mapError(err)
	}

	sub.Plan = subscription.Plan(plan)
	sub.Status = subscription.Status(status)
	sub.ProviderCustomerID = customerID.String
	sub.ProviderSubscriptionID = subID.String
	sub.CreatedAt = time.UnixMilli(created).UTC()
	sub.UpdatedAt = time.UnixMilli(updated).UTC()
	return &sub, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullableStatus(v *subscription.Status) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return subscription.ErrNotFound
	case sqlite.IsDuplicateKeyError(err):
		return errors.Join(subscription.ErrDuplicateKey, err)
	case sqlite.IsCheckViolationError(err):
		return errors.Join(subscription.ErrInvalidRequest, err)
	default:
		return errors.Join(subscription.ErrStoreUnavailable, err)
	}
}
