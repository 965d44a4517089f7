package subscription

// Plan is one of the fixed subscription tiers offered at checkout.
type Plan string

const (
	PlanBasic      Plan = "Basic"
	PlanPro        Plan = "Pro"
	PlanEnterprise Plan = "Enterprise"
)

// Plans lists every tier in display order.
var Plans = []Plan{PlanBasic, PlanPro, PlanEnterprise}

// Valid reports whether p is one of the known tiers.
// Matching is case-sensitive, the tier names are part of the public API.
func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

func (p Plan) String() string { return string(p) }

// ParsePlan converts raw input into a Plan.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return "", ErrInvalidPlan
	}
	return p, nil
}

// Status mirrors the provider's subscription lifecycle states.
type Status string

const (
	StatusActive            Status = "active"
	StatusCanceled          Status = "canceled"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusPastDue           Status = "past_due"
	StatusTrialing          Status = "trialing"
	StatusUnpaid            Status = "unpaid"
)

// Valid reports whether s is a status the store accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCanceled, StatusIncomplete, StatusIncompleteExpired,
		StatusPastDue, StatusTrialing, StatusUnpaid:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus converts a provider-reported status into a Status.
// Statuses outside the local enum (e.g. "paused") are rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrUnknownStatus
	}
	return st, nil
}
