package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"

	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
)

// LoggerMiddleware writes a full access log when env.debug is set and only
// server failures otherwise.
type LoggerMiddleware struct {
	logger *slog.Logger
	access echo.MiddlewareFunc
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) *LoggerMiddleware {
	m := &LoggerMiddleware{logger: logger}

	if cfg.Env.Debug {
		m.access = slogecho.NewWithConfig(logger, slogecho.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    true,
			Filters: []slogecho.Filter{
				slogecho.IgnorePath("/health", cfg.Metrics.Path),
			},
		})
	}

	return m
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if m.access != nil {
		return m.access(next)
	}

	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			// Render now so the logged status is the one the client got.
			c.Error(err)
			m.logFailure(c, start, err)

			return nil
		}

		if c.Response().Status >= http.StatusInternalServerError {
			m.logFailure(c, start, nil)
		}

		return nil
	}
}

func (m *LoggerMiddleware) logFailure(c echo.Context, start time.Time, err error) {
	res := c.Response()
	if res.Status < http.StatusInternalServerError {
		return
	}

	req := c.Request()
	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	m.logger.LogAttrs(req.Context(), slog.LevelError, "HTTP Request failed", fields...)
}
