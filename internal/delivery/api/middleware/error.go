package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"blogauth/internal/delivery/api/response"
	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		now:    time.Now,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	req := c.Request()
	log := deliverycontext.GetLoggerOrDefault(req.Context(), m.logger)

	// Authentication failures are logged with their precise reason; the
	// client only ever sees the public code.
	if authErr, ok := errors.Find[*domainerrors.AuthError](err); ok {
		level := slog.LevelWarn
		if authErr.HTTPCode() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(req.Context(), level, "Authentication request failed",
			slog.String("failure", authErr.Failure().String()),
			slog.String("code", authErr.ErrorCode()),
			slog.String("path", req.URL.Path),
			slog.Any("error", err),
		)

		if resetAt := authErr.ResetAt(); authErr.Failure() == domainerrors.FailureRateLimited && !resetAt.IsZero() {
			c.Response().Header().Set("Retry-After", strconv.Itoa(m.retryAfterSeconds(resetAt)))
		}

		_ = response.AppError(c, authErr)

		return
	}

	if appErr, ok := errors.Find[domainerrors.AppError](err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			log.Error("Request failed",
				slog.Any("error", err),
				slog.String("path", req.URL.Path),
				slog.String("method", req.Method),
			)
		}

		_ = response.AppError(c, appErr)

		return
	}

	if httpErr, ok := errors.Find[*echo.HTTPError](err); ok {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	log.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", req.URL.Path),
		slog.String("method", req.Method),
	)

	_ = response.InternalServerError(c)
}

func (m *ErrorMiddleware) retryAfterSeconds(resetAt time.Time) int {
	seconds := int(math.Ceil(resetAt.Sub(m.now()).Seconds()))

	return max(seconds, 1)
}
