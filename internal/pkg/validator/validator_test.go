package validator

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,pwd"`
	Location  string `json:"location" validate:"notblank"`
	BirthYear int    `json:"birth_year" validate:"omitempty,year"`
	Role      string `json:"role" validate:"oneof=listener organization"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	v := newValidate()

	err := v.Struct(signupForm{Email: "nope", Password: "123", Location: "   ", BirthYear: -3, Role: "admin"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "must not be blank", details["location"])
	assert.Equal(t, "must be a valid year", details["birth_year"])
	assert.Equal(t, "must be one of: listener, organization", details["role"])
}

func TestToDetails_Valid(t *testing.T) {
	v := newValidate()
	err := v.Struct(signupForm{Email: "a@b.co", Password: "123456", Location: "Hall", Role: "listener"})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}

func TestToDetails_BadJSON(t *testing.T) {
	var dst signupForm
	err := json.Unmarshal([]byte(`{"email":`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"birth_year":"x"}`), &dst)
	assert.Equal(t, "must be a int", ToDetails(err)["birth_year"])
}
