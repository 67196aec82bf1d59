package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/entity"
	"blogauth/internal/infra/auth"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/persistence/memory"
	"blogauth/internal/usecase"
	"blogauth/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testHost = "blog.example.com"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvTest
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Session.Issuer = "blogauth-test"
	cfg.Session.CookieName = "blogauth.session-token"
	cfg.Session.MaxAge = 30 * 24 * time.Hour
	cfg.Session.UpdateAge = 24 * time.Hour
	cfg.RateLimit.Policies = config.DefaultRateLimitPolicies()

	return cfg
}

// sessionFixtures wires the real session stack over the in-memory store.
type sessionFixtures struct {
	cfg      *config.Config
	sessions usecase.SessionUsecase
	cookies  *SessionCookies
	store    *memory.Store
}

func newSessionFixtures(t *testing.T) sessionFixtures {
	t.Helper()

	cfg := newTestConfig()
	signer, err := auth.NewJWTSessionSigner(auth.SessionSignerParams{Config: cfg, Logger: newDiscardLogger()})
	require.NoError(t, err)

	store := memory.NewStore()
	sessions := impl.NewSessionService(impl.SessionServiceParams{
		Signer:   signer,
		UserRepo: store.UserRepo(),
		Metrics:  metrics.Noop{},
		Config:   cfg,
		Logger:   newDiscardLogger(),
	})

	return sessionFixtures{cfg: cfg, sessions: sessions, cookies: NewSessionCookies(cfg), store: store}
}

// cookieFor issues a session for a fresh user id with role.
func (f sessionFixtures) cookieFor(t *testing.T, role entity.Role) *http.Cookie {
	t.Helper()

	sess, err := f.sessions.Issue(context.Background(), uuid.New(), role)
	require.NoError(t, err)

	return &http.Cookie{Name: f.cfg.Session.CookieName, Value: sess.Token}
}

// newTestEcho mirrors the API server's error handling and session/access chain.
func (f sessionFixtures) newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	sessionMiddleware := NewSessionMiddleware(f.sessions, f.cookies, newDiscardLogger())
	e.Use(sessionMiddleware.Load)
	e.Use(NewAccessMiddleware(NewAccessPolicy(f.cfg)).Enforce)

	return e
}
