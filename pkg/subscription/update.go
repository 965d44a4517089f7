package subscription

import "errors"

// Update is a partial mutation of a Subscription.
// Only the fields below are updatable; nil means "leave unchanged".
type Update struct {
	CustomerID     *string
	SubscriptionID *string
	Status         *Status
}

// SetStatus returns an Update that only changes the status.
func SetStatus(s Status) Update {
	return Update{Status: &s}
}

// WithCustomerID sets the provider customer id when id is non-empty.
func (u Update) WithCustomerID(id string) Update {
	if id != "" {
		u.CustomerID = &id
	}
	return u
}

// WithSubscriptionID sets the provider subscription id when id is non-empty.
func (u Update) WithSubscriptionID(id string) Update {
	if id != "" {
		u.SubscriptionID = &id
	}
	return u
}

// IsEmpty reports whether the update touches no field.
func (u Update) IsEmpty() bool {
	return u.CustomerID == nil && u.SubscriptionID == nil && u.Status == nil
}

// Validate rejects unknown statuses and attempts to clear provider identifiers.
func (u Update) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return errors.Join(ErrInvalidRequest, ErrUnknownStatus)
	}
	if (u.CustomerID != nil && *u.CustomerID == "") ||
		(u.SubscriptionID != nil && *u.SubscriptionID == "") {
		return errors.Join(ErrInvalidRequest, ErrEmptyIdentifier)
	}
	return nil
}
