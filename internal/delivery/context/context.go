// Package context carries request-scoped values between the HTTP layer and
// the use cases: the request id, a logger bound to it and the caller's session.
package context

import (
	"context"
	"log/slog"

	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// KeySession is the echo.Context key holding the caller's *usecase.Session.
	KeySession ContextKey = "session"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context.
// If not found, generates a new UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns the request ID stored in ctx, or "".
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// SetSession records the authenticated session on c.
func SetSession(c echo.Context, sess *usecase.Session) {
	c.Set(string(KeySession), sess)
}

// GetSession returns the session set by the session middleware. ok is false
// for anonymous requests.
func GetSession(c echo.Context) (*usecase.Session, bool) {
	sess, ok := c.Get(string(KeySession)).(*usecase.Session)

	return sess, ok && sess != nil
}

// ClearSession drops the session from c, e.g. after sign-out.
func ClearSession(c echo.Context) {
	c.Set(string(KeySession), nil)
}
