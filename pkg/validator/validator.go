package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

// ValidationError is a single failed rule on a single field.
type ValidationError struct {
	Field string // JSON name of the field
	Rule  string // tag that failed, e.g. "required"
	Param string // tag parameter, e.g. the oneof list
}

func (e ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s: failed %s", e.Field, e.Rule)
}

// ValidationErrors collects every failed rule of a struct.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Error())
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Unwrap() error { return ErrValidationFailed }

// Has reports whether field failed. With a non-empty rule only that rule counts.
func (ve ValidationErrors) Has(field, rule string) bool {
	for _, e := range ve {
		if e.Field == field && (rule == "" || e.Rule == rule) {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, e := range ve {
		if !seen[e.Field] {
			fields = append(fields, e.Field)
			seen[e.Field] = true
		}
	}
	return fields
}

var (
	engine     *playground.Validate
	engineOnce sync.Once
)

func get() *playground.Validate {
	engineOnce.Do(func() {
		engine = playground.New(playground.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return engine
}

// Struct validates v against its `validate` tags.
// Rule failures are returned as ValidationErrors; misuse of the engine
// (e.g. a non-struct argument) is returned as is.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Extract returns the ValidationErrors wrapped in err, or nil.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
