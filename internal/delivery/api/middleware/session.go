package middleware

import (
	"log/slog"

	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware resolves the session cookie into a *usecase.Session on
// the echo context and keeps the cookie fresh.
type SessionMiddleware struct {
	sessions usecase.SessionUsecase
	cookies  *SessionCookies
	logger   *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessions usecase.SessionUsecase, cookies *SessionCookies, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
	}
}

// Load never rejects a request. A missing or invalid cookie makes the
// request anonymous; an invalid one is also cleared.
func (m *SessionMiddleware) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := m.cookies.Read(c)
		if !ok {
			return next(c)
		}

		ctx := c.Request().Context()
		log := deliverycontext.GetLoggerOrDefault(ctx, m.logger)

		sess, err := m.sessions.Validate(ctx, raw)
		if err != nil {
			m.cookies.Clear(c)

			return next(c)
		}

		refreshed, changed, err := m.sessions.Refresh(ctx, sess)
		switch {
		case errors.Is(err, service.ErrSessionInvalid):
			m.cookies.Clear(c)

			return next(c)
		case err != nil:
			// The store being down is no reason to sign the user out.
			log.Warn("Session refresh failed, keeping current session", slog.Any("error", err))
		case changed:
			m.cookies.Set(c, refreshed)
			sess = refreshed
		}

		deliverycontext.SetSession(c, sess)

		return next(c)
	}
}

// RequireSession answers 401 for anonymous requests. It must run after Load.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetSession(c); !ok {
			return domainerrors.ErrUnauthenticated
		}

		return next(c)
	}
}
