package errors

import (
	"fmt"
	"net/http"
	"time"

	"blogauth/internal/errors"
)

// Failure is the precise internal reason an authentication flow failed.
// It is logged as-is and never shown to clients; PublicFor maps it to the
// code a client sees.
type Failure int

const (
	FailureInternal Failure = iota
	FailureValidation
	FailureRateLimited
	FailureUserNotFound
	FailureInvalidCredentials
	FailureEmailNotVerified
	FailureOAuthOnlyAccount
	FailureNoPasswordSet
	FailureInvalidToken
	FailureExpiredToken
	FailureEmailTaken
	FailureEmailTakenByOAuth
	FailureAccountNotLinked
	FailureForbidden
	FailureOAuthExchange
	FailureStoreUnavailable
)

var failureNames = map[Failure]string{
	FailureInternal:           "internal",
	FailureValidation:         "validation",
	FailureRateLimited:        "rate_limited",
	FailureUserNotFound:       "user_not_found",
	FailureInvalidCredentials: "invalid_credentials",
	FailureEmailNotVerified:   "email_not_verified",
	FailureOAuthOnlyAccount:   "oauth_only_account",
	FailureNoPasswordSet:      "no_password_set",
	FailureInvalidToken:       "invalid_token",
	FailureExpiredToken:       "expired_token",
	FailureEmailTaken:         "email_taken",
	FailureEmailTakenByOAuth:  "email_taken_by_oauth",
	FailureAccountNotLinked:   "account_not_linked",
	FailureForbidden:          "forbidden",
	FailureOAuthExchange:      "oauth_exchange",
	FailureStoreUnavailable:   "store_unavailable",
}

func (f Failure) String() string {
	if name, ok := failureNames[f]; ok {
		return name
	}

	return fmt.Sprintf("failure(%d)", int(f))
}

// PublicCode is the client-facing error code.
type PublicCode string

const (
	PublicValidationFailed      PublicCode = "VALIDATION_FAILED"
	PublicRateLimited           PublicCode = "RATE_LIMITED"
	PublicInvalidCredentials    PublicCode = "INVALID_CREDENTIALS"
	PublicInvalidOrExpiredToken PublicCode = "INVALID_OR_EXPIRED_TOKEN"
	PublicConflict              PublicCode = "CONFLICT"
	PublicForbidden             PublicCode = "FORBIDDEN"
	PublicOAuthFailed           PublicCode = "OAUTH_FAILED"
	PublicOAuthAccountNotLinked PublicCode = "OAUTH_ACCOUNT_NOT_LINKED"
	PublicInternalError         PublicCode = "INTERNAL_ERROR"
)

var publicStatus = map[PublicCode]int{
	PublicValidationFailed:      http.StatusBadRequest,
	PublicRateLimited:           http.StatusTooManyRequests,
	PublicInvalidCredentials:    http.StatusUnauthorized,
	PublicInvalidOrExpiredToken: http.StatusBadRequest,
	PublicConflict:              http.StatusBadRequest,
	PublicForbidden:             http.StatusForbidden,
	PublicOAuthFailed:           http.StatusBadRequest,
	PublicOAuthAccountNotLinked: http.StatusBadRequest,
	PublicInternalError:         http.StatusInternalServerError,
}

var publicMessages = map[PublicCode]string{
	PublicValidationFailed:      "Invalid input data",
	PublicRateLimited:           "Too many attempts. Please try again later.",
	PublicInvalidCredentials:    "Invalid email or password",
	PublicInvalidOrExpiredToken: "Invalid or expired reset token. Please request a new password reset.",
	PublicConflict:              "An account with this email already exists. Please sign in instead.",
	PublicForbidden:             "Forbidden",
	PublicOAuthFailed:           "Signing in with the external provider failed",
	PublicOAuthAccountNotLinked: "An account with this email already exists. Sign in with your password first to link this provider.",
	PublicInternalError:         "Internal server error. Please try again later.",
}

// PublicFor maps every internal failure to exactly one public code.
func PublicFor(f Failure) PublicCode {
	switch f {
	case FailureValidation:
		return PublicValidationFailed
	case FailureRateLimited:
		return PublicRateLimited
	case FailureUserNotFound, FailureInvalidCredentials, FailureEmailNotVerified,
		FailureOAuthOnlyAccount, FailureNoPasswordSet:
		return PublicInvalidCredentials
	case FailureInvalidToken, FailureExpiredToken:
		return PublicInvalidOrExpiredToken
	case FailureEmailTaken, FailureEmailTakenByOAuth:
		return PublicConflict
	case FailureAccountNotLinked:
		return PublicOAuthAccountNotLinked
	case FailureForbidden:
		return PublicForbidden
	case FailureOAuthExchange:
		return PublicOAuthFailed
	default:
		return PublicInternalError
	}
}

// StatusFor returns the HTTP status for a public code.
func StatusFor(code PublicCode) int {
	if status, ok := publicStatus[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// FieldError is one field-level validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AuthError carries an internal Failure together with what the client may
// see. It implements AppError.
type AuthError struct {
	failure Failure
	message string
	fields  []FieldError
	resetAt time.Time
	cause   error
}

// NewAuthError creates an AuthError. cause may be nil.
func NewAuthError(failure Failure, cause error) *AuthError {
	return &AuthError{failure: failure, cause: cause}
}

// NewValidationError creates a validation failure with field details.
func NewValidationError(fields []FieldError) *AuthError {
	return &AuthError{failure: FailureValidation, fields: fields}
}

// NewRateLimitedError creates a rate-limit failure that reports when the window resets.
func NewRateLimitedError(resetAt time.Time) *AuthError {
	return &AuthError{failure: FailureRateLimited, resetAt: resetAt}
}

// WithPublicMessage returns a copy whose client-facing message is msg.
func (e *AuthError) WithPublicMessage(msg string) *AuthError {
	cloned := *e
	cloned.message = msg

	return &cloned
}

func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("auth failure %s: %v", e.failure, e.cause)
	}

	return "auth failure " + e.failure.String()
}

func (e *AuthError) Unwrap() error {
	return e.cause
}

// Failure returns the internal reason.
func (e *AuthError) Failure() Failure {
	return e.failure
}

// Public returns the client-facing code.
func (e *AuthError) Public() PublicCode {
	return PublicFor(e.failure)
}

// ResetAt is set for rate-limit failures.
func (e *AuthError) ResetAt() time.Time {
	return e.resetAt
}

// Fields returns the field-level validation problems, if any.
func (e *AuthError) Fields() []FieldError {
	return e.fields
}

func (e *AuthError) HTTPCode() int {
	return StatusFor(e.Public())
}

func (e *AuthError) ErrorCode() string {
	return string(e.Public())
}

func (e *AuthError) Message() string {
	// Overrides only apply to codes whose message is meant to vary.
	if e.message != "" && e.Public() != PublicInternalError {
		return e.message
	}

	return publicMessages[e.Public()]
}

func (e *AuthError) Details() any {
	switch {
	case len(e.fields) > 0:
		return e.fields
	case e.failure == FailureRateLimited && !e.resetAt.IsZero():
		return map[string]int64{"resetTime": e.resetAt.UnixMilli()}
	default:
		return nil
	}
}

// FailureOf extracts the internal failure from err. Errors that are not
// AuthErrors report FailureInternal.
func FailureOf(err error) Failure {
	if authErr, ok := errors.Find[*AuthError](err); ok {
		return authErr.failure
	}

	return FailureInternal
}

// IsFailure reports whether err carries one of the given failures.
func IsFailure(err error, failures ...Failure) bool {
	authErr, ok := errors.Find[*AuthError](err)
	if !ok {
		return false
	}
	for _, f := range failures {
		if authErr.failure == f {
			return true
		}
	}

	return false
}
