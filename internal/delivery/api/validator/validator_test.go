package validator

import (
	"strings"
	"testing"

	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes", "Secret1!", true},
		{"every special accepted", "Aa1@$!%*?&", true},
		{"missing upper", "secret1!", false},
		{"missing lower", "SECRET1!", false},
		{"missing digit", "Secret!!", false},
		{"missing special", "Secret12", false},
		{"disallowed special", "Secret1!#", false},
		{"whitespace", "Secret 1!", false},
		{"non ascii", "Sécret1!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestCustomValidator_Valid(t *testing.T) {
	v := New()

	err := v.Validate(&signupRequest{Name: "Ada", Email: "ada@example.com", Password: "Secret1!"})
	assert.NoError(t, err)
}

func TestCustomValidator_FieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(&signupRequest{Name: "A", Email: "not-an-email", Password: "Short1!"})
	require.Error(t, err)

	authErr, ok := errors.Find[*domainerrors.AuthError](err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.FailureValidation, authErr.Failure())
	assert.Equal(t, "VALIDATION_FAILED", authErr.ErrorCode())
	assert.ElementsMatch(t, []domainerrors.FieldError{
		{Field: "name", Message: "Name must be at least 2 characters"},
		{Field: "email", Message: "Invalid email address"},
		{Field: "password", Message: "Password must be at least 8 characters"},
	}, authErr.Fields())
}

func TestCustomValidator_WeakPassword(t *testing.T) {
	v := New()

	err := v.Validate(&signupRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.Error(t, err)

	authErr, ok := errors.Find[*domainerrors.AuthError](err)
	require.True(t, ok)
	require.Len(t, authErr.Fields(), 1)
	assert.Equal(t, "password", authErr.Fields()[0].Field)
	assert.Equal(t, strongPasswordMessage, authErr.Fields()[0].Message)
}

func TestCustomValidator_PasswordLength(t *testing.T) {
	v := New()
	longest := "Aa1@" + strings.Repeat("x", 68)

	assert.NoError(t, v.Validate(&signupRequest{Name: "Ada", Email: "ada@example.com", Password: longest}))

	err := v.Validate(&signupRequest{Name: "Ada", Email: "ada@example.com", Password: longest + "x"})
	require.Error(t, err)

	authErr, ok := errors.Find[*domainerrors.AuthError](err)
	require.True(t, ok)
	assert.Equal(t, []domainerrors.FieldError{
		{Field: "password", Message: "Password must be at most 72 characters"},
	}, authErr.Fields())
}
