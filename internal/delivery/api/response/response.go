package response

import (
	"net/http"

	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Machine-readable error code, e.g., "VALIDATION_FAILED"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Additional error context (only for 4xx errors)
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// MessageBody is the data of responses that only confirm an action.
type MessageBody struct {
	Message string `json:"message"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Data: data,
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// Message returns a successful response whose data is {"message": msg}.
func Message(c echo.Context, statusCode int, msg string) error {
	return Success(c, statusCode, MessageBody{Message: msg})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	// Details should not be included for 5xx errors or authentication/authorization errors
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// AppError renders appErr with its public code, message and details.
func AppError(c echo.Context, appErr domainerrors.AppError) error {
	return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
}

// Unauthorized returns a 401 error
func Unauthorized(c echo.Context) error {
	return AppError(c, domainerrors.ErrUnauthenticated)
}

// InternalServerError returns a generic 500 error
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError,
		string(domainerrors.PublicInternalError), "Internal server error. Please try again later.", nil)
}
