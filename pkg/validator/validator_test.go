package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/validator"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Plan  string `json:"plan" validate:"required,oneof=Basic Pro"`
	Note  string `validate:"max=3"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Struct(signup{Email: "a@b.co", Plan: "Pro"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		t.Parallel()
		err := validator.Struct(signup{Email: "nope", Note: "toolong"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, validator.ErrValidationFailed))

		ve := validator.Extract(err)
		require.Len(t, ve, 3)
		assert.True(t, ve.Has("email", "email"))
		assert.True(t, ve.Has("plan", "required"))
		assert.True(t, ve.Has("Note", "max"))
		assert.False(t, ve.Has("email", "required"))
		assert.Equal(t, []string{"email", "plan", "Note"}, ve.Fields())
	})

	t.Run("oneof param", func(t *testing.T) {
		t.Parallel()
		ve := validator.Extract(validator.Struct(signup{Email: "a@b.co", Plan: "Gold"}))
		require.Len(t, ve, 1)
		assert.Equal(t, "oneof", ve[0].Rule)
		assert.Equal(t, "Basic Pro", ve[0].Param)
		assert.Contains(t, ve.Error(), "plan: failed oneof=Basic Pro")
	})

	t.Run("non struct", func(t *testing.T) {
		t.Parallel()
		err := validator.Struct("string")
		require.Error(t, err)
		assert.Nil(t, validator.Extract(err))
	})
}
