package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"blogauth/config"
	"blogauth/internal/delivery/api/middleware"
	"blogauth/internal/delivery/api/validator"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/infra/auth"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/oauth"
	"blogauth/internal/infra/persistence/memory"
	"blogauth/internal/infra/ratelimit"
	mockSvc "blogauth/internal/mocks/service"
	"blogauth/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testHost     = "blog.example.com"
	testOrigin   = "https://" + testHost
	testClientIP = "203.0.113.10"
)

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
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.VerificationTokenTTL = 24 * time.Hour
	cfg.Auth.ResetTokenTTL = time.Hour
	cfg.RateLimit.Policies = config.DefaultRateLimitPolicies()
	cfg.Access.AuthenticatedLanding = "/dashboard"

	return cfg
}

// apiFixtures serves the auth routes over the real use cases and the
// in-memory store. Published mail events are captured instead of sent.
type apiFixtures struct {
	cfg      *config.Config
	e        *echo.Echo
	store    *memory.Store
	provider *mockSvc.MockOAuthProvider

	mu     sync.Mutex
	events []*service.AuthMailEvent
}

func newAPIFixtures(t *testing.T, configure ...func(*config.Config)) *apiFixtures {
	t.Helper()

	f := &apiFixtures{cfg: newTestConfig(), store: memory.NewStore()}
	cfg := f.cfg
	for _, fn := range configure {
		fn(cfg)
	}
	logger := newDiscardLogger()

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishAuthMailEvent(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, event *service.AuthMailEvent) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, event)

			return nil
		}).Maybe()

	identity := impl.NewIdentityService(impl.IdentityServiceParams{
		TxManager:        f.store.TransactionManager(),
		UserRepo:         f.store.UserRepo(),
		VerificationRepo: f.store.VerificationTokenRepo(),
		ResetRepo:        f.store.PasswordResetTokenRepo(),
		Hasher:           auth.NewBcryptHasher(cfg),
		TokenIssuer:      auth.NewTokenIssuer(),
		Publisher:        publisher,
		Metrics:          metrics.Noop{},
		Config:           cfg,
		Logger:           logger,
	})

	signer, err := auth.NewJWTSessionSigner(auth.SessionSignerParams{Config: cfg, Logger: logger})
	require.NoError(t, err)

	sessions := impl.NewSessionService(impl.SessionServiceParams{
		Signer:   signer,
		UserRepo: f.store.UserRepo(),
		Metrics:  metrics.Noop{},
		Config:   cfg,
		Logger:   logger,
	})

	limiter := ratelimit.NewMemoryLimiter(0)
	t.Cleanup(func() { _ = limiter.Close() })
	limits := middleware.NewRateLimitMiddleware(impl.NewRateLimitService(impl.RateLimitServiceParams{
		Limiter: limiter,
		Config:  cfg,
		Logger:  logger,
	}))

	f.provider = mockSvc.NewMockOAuthProvider(t)
	f.provider.EXPECT().Name().Return(entity.ProviderGitHub).Maybe()
	f.provider.EXPECT().AuthCodeURL(mock.Anything).
		RunAndReturn(func(state string) string {
			return "https://github.example/login/oauth/authorize?state=" + state
		}).Maybe()

	oauthLogin := impl.NewOAuthLoginService(impl.OAuthLoginServiceParams{
		Providers:  oauth.NewStaticRegistry(f.provider),
		StateStore: oauth.NewMemoryStateStore(),
		Identity:   identity,
		Sessions:   sessions,
		Config:     cfg,
		Logger:     logger,
	})

	cookies := middleware.NewSessionCookies(cfg)
	sessionMiddleware := middleware.NewSessionMiddleware(sessions, cookies, logger)

	authHandler := NewAuthHandler(AuthHandlerParams{
		IdentityUC: identity,
		SessionUC:  sessions,
		Cookies:    cookies,
		Logger:     logger,
	})
	oauthHandler := NewOAuthHandler(OAuthHandlerParams{
		OAuthUC:     oauthLogin,
		Cookies:     cookies,
		StateCookie: middleware.NewOAuthStateCookie(cfg),
		Logger:      logger,
	})

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Use(sessionMiddleware.Load)
	e.Use(middleware.NewAccessMiddleware(middleware.NewAccessPolicy(cfg)).Enforce)

	api := e.Group("/api/auth")
	api.POST("/signup", authHandler.Signup, limits.Limit(constants.ActionSignup))
	api.POST("/signin", authHandler.Signin, limits.Limit(constants.ActionSignin))
	api.POST("/signout", authHandler.Signout)
	api.GET("/session", authHandler.Session, sessionMiddleware.RequireSession)
	api.POST("/forgot-password", authHandler.ForgotPassword, limits.Limit(constants.ActionForgotPassword))
	api.POST("/reset-password", authHandler.ResetPassword, limits.Limit(constants.ActionResetPassword))
	api.GET("/verify-email", authHandler.VerifyEmail)
	api.GET("/oauth/providers", oauthHandler.Providers)
	api.GET("/oauth/:provider", oauthHandler.Begin)
	api.GET("/oauth/:provider/callback", oauthHandler.Callback)
	e.GET("/dashboard", Page)

	f.e = e

	return f
}

// do sends a same-origin request from testClientIP.
func (f *apiFixtures) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Host = testHost
	req.Header.Set(echo.HeaderOrigin, testOrigin)
	req.Header.Set(echo.HeaderXRealIP, testClientIP)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	return rec
}

func (f *apiFixtures) lastEvent(t *testing.T, eventType service.AuthMailType) *service.AuthMailEvent {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Type == eventType {
			return f.events[i]
		}
	}
	t.Fatalf("no %s event published", eventType)

	return nil
}

func (f *apiFixtures) sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == f.cfg.Session.CookieName {
			return cookie
		}
	}
	t.Fatalf("response did not set %s", f.cfg.Session.CookieName)

	return nil
}

// envelope decodes either response shape.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return env
}
