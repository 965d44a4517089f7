package subscription

import "time"

// Subscription is the local record of a visitor's subscription.
// Email is the primary key; there is exactly one record per email.
type Subscription struct {
	Email                  string
	Plan                   Plan
	Status                 Status
	ProviderCustomerID     string // empty until checkout completes
	ProviderSubscriptionID string // empty until checkout completes
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewPending returns the record created when a checkout is initiated.
func NewPending(email string, plan Plan, now time.Time) *Subscription {
	return &Subscription{
		Email:     email,
		Plan:      plan,
		Status:    StatusIncomplete,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

func (s *Subscription) IsCanceled() bool {
	return s.Status == StatusCanceled
}

// Apply copies the fields set in u onto s and stamps UpdatedAt.
// It is used by stores that keep records in memory.
func (s *Subscription) Apply(u Update, now time.Time) {
	if u.CustomerID != nil {
		s.ProviderCustomerID = *u.CustomerID
	}
	if u.SubscriptionID != nil {
		s.ProviderSubscriptionID = *u.SubscriptionID
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	s.UpdatedAt = now
}
