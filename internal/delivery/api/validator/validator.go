// Package validator adapts go-playground/validator to echo and turns
// validation failures into field-level VALIDATION_FAILED errors.
package validator

import (
	"reflect"
	"strings"
	"unicode"

	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/errors"

	"github.com/go-playground/validator/v10"
)

// TagStrongPassword is the custom tag for account passwords.
const TagStrongPassword = "strongpassword"

const passwordSpecials = "@$!%*?&"

// Message for a password that fails TagStrongPassword.
const strongPasswordMessage = "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"

// messages maps "field.tag" to the client-facing text. Lookups fall back to
// the tag alone.
var messages = map[string]string{
	"name.required":     "Name must be at least 2 characters",
	"name.min":          "Name must be at least 2 characters",
	"email.required":    "Invalid email address",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
	"password.max":      "Password must be at most 72 characters",
	"token.required":    "Reset token is required",
	"required":          "This field is required",
	"email":             "Invalid email address",
	TagStrongPassword:   strongPasswordMessage,
	"min":               "Value is too short",
	"max":               "Value is too long",
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator that reports JSON field names and knows TagStrongPassword.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name = field.Name
		}

		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation(TagStrongPassword, func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &CustomValidator{validate: validate}
}

// Validate returns nil or a *domainerrors.AuthError carrying FailureValidation.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrs, ok := errors.Find[validator.ValidationErrors](err)
	if !ok {
		return errors.Wrap(err, "failed to validate request")
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag()),
		})
	}

	return domainerrors.NewValidationError(fields)
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}

	return "Invalid value"
}

// IsStrongPassword reports whether password has at least one lowercase
// letter, one uppercase letter, one digit and one of @$!%*?&, and nothing
// outside those classes. Length is checked by the min and max tags; bcrypt
// refuses more than 72 bytes and every accepted rune is one byte.
func IsStrongPassword(password string) bool {
	var lower, upper, digit, special bool

	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return false
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}

	return lower && upper && digit && special
}
