package subscription

import "context"

// Store persists subscription records.
// Every operation is a point lookup or mutation by a unique key.
type Store interface {
	// Create inserts a new record.
	// Returns ErrDuplicateKey if a record with the same email exists.
	Create(ctx context.Context, sub *Subscription) error

	// UpdateByEmail applies u to the record identified by email and bumps UpdatedAt.
	// An empty update returns immediately. A missing email affects zero rows
	// and is reported as (false, nil), not as an error.
	UpdateByEmail(ctx context.Context, email string, u Update) (bool, error)

	// GetByEmail returns ErrNotFound if no record exists.
	GetByEmail(ctx context.Context, email string) (*Subscription, error)

	// GetByCustomerID returns ErrNotFound if no record carries the customer id.
	GetByCustomerID(ctx context.Context, customerID string) (*Subscription, error)
}
