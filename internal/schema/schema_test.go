package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealmuse/internal/shared"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type dishes struct {
	Name   string   `json:"name" validate:"notblank,max=10"`
	Dishes []string `json:"dishes" validate:"min=1,dive,notblank"`
}

func (dishes) ValidationMessage(field, rule string) string {
	if field == "name" && rule == "notblank" {
		return "Please name the dish."
	}
	return ""
}

type nested struct {
	Plan struct {
		Breakfast string `json:"breakfast" validate:"notblank"`
	} `json:"plan"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(credentials{Email: "cook@example.com", Password: "secret1"}))
	assert.NoError(t, Validate(dishes{Name: "Soup", Dishes: []string{"a"}}))
}

func TestValidate_FieldViolations(t *testing.T) {
	err := Validate(credentials{Email: "not-an-email", Password: "12345"})
	require.Error(t, err)

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Violations, 2)

	email, ok := verr.Field("email")
	require.True(t, ok)
	assert.Equal(t, "email", email.Rule)
	assert.Equal(t, "Please enter a valid email address.", email.Message)

	pw, ok := verr.Field("password")
	require.True(t, ok)
	assert.Equal(t, "min", pw.Rule)
	assert.Equal(t, "Must be at least 6 characters.", pw.Message)
}

func TestValidate_CustomMessageAndSlices(t *testing.T) {
	err := Validate(dishes{Name: "   ", Dishes: nil})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))

	name, ok := verr.Field("name")
	require.True(t, ok)
	assert.Equal(t, "Please name the dish.", name.Message)

	list, ok := verr.Field("dishes")
	require.True(t, ok)
	assert.Equal(t, "Must contain at least 1 item(s).", list.Message)
}

func TestValidate_MaxCountsRunes(t *testing.T) {
	assert.NoError(t, Validate(dishes{Name: strings.Repeat("é", 10), Dishes: []string{"x"}}))
	assert.Error(t, Validate(dishes{Name: strings.Repeat("é", 11), Dishes: []string{"x"}}))
}

func TestValidate_NestedFieldPath(t *testing.T) {
	err := Validate(nested{})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	_, ok := verr.Field("plan.breakfast")
	assert.True(t, ok, "got %v", verr.Violations)
}
