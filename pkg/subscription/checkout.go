package subscription

import (
	"strings"

	"github.com/dmitrymomot/subscriptions/pkg/validator"
)

// CheckoutRequest is the visitor's plan selection.
type CheckoutRequest struct {
	Email string `json:"email" validate:"required,email"`
	Plan  Plan   `json:"plan" validate:"required,oneof=Basic Pro Enterprise"`
}

// Normalize trims surrounding whitespace from the email.
// Plan names are matched exactly and left untouched.
func (r *CheckoutRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks presence first, then plan, then email format, so the
// first reported error matches the most basic problem with the request.
func (r CheckoutRequest) Validate() error {
	if r.Email == "" || r.Plan == "" {
		return ErrMissingCheckoutFields
	}
	ve := validator.Extract(validator.Struct(r))
	switch {
	case ve.Has("plan", ""):
		return ErrInvalidPlan
	case ve.Has("email", ""):
		return ErrInvalidEmail
	}
	return nil
}
