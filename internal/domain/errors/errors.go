package errors

import (
	"net/http"

	"blogauth/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Public error code
	Message() string   // User-facing error message
	Details() any      // Extra client-safe context (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   any
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string, details any) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	return e.message
}

func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() any {
	return e.details
}

// Predefined errors for conditions outside the authentication flows.
var (
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"The requested resource was not found",
		nil,
	)

	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"You need to sign in to access this resource",
		nil,
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed: "+e.details).Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return string(PublicInternalError)
}

func (e *DatabaseExecuteError) Message() string {
	return publicMessages[PublicInternalError]
}

// Details is never exposed for 5xx responses, so it returns nil.
func (e *DatabaseExecuteError) Details() any {
	return nil
}
