package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogauth/internal/delivery/api/response"
	"blogauth/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func newAccessTestEcho(f sessionFixtures) *echo.Echo {
	e := f.newTestEcho()
	for _, path := range []string{"/", "/dashboard", "/dashboard/posts", "/admin", "/admin/users", "/auth/signin", "/posts/hello"} {
		e.GET(path, okHandler)
	}
	e.POST("/api/auth/signup", okHandler)

	return e
}

func TestAccessMiddleware_PageRules(t *testing.T) {
	f := newSessionFixtures(t)
	e := newAccessTestEcho(f)

	tests := []struct {
		name         string
		role         entity.Role // empty means anonymous
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"anonymous reaches public page", "", "/posts/hello", http.StatusOK, ""},
		{"anonymous sent to sign-in from dashboard", "", "/dashboard", http.StatusFound, "/auth/signin?callbackUrl=%2Fdashboard"},
		{"anonymous sent to sign-in from admin", "", "/admin/users", http.StatusFound, "/auth/signin?callbackUrl=%2Fadmin%2Fusers"},
		{"anonymous may sign in", "", "/auth/signin", http.StatusOK, ""},
		{"reader bounced from dashboard", entity.RoleReader, "/dashboard", http.StatusFound, "/"},
		{"author reaches dashboard", entity.RoleAuthor, "/dashboard/posts", http.StatusOK, ""},
		{"author bounced from admin", entity.RoleAuthor, "/admin", http.StatusFound, "/dashboard"},
		{"admin reaches admin", entity.RoleAdmin, "/admin/users", http.StatusOK, ""},
		{"admin reaches dashboard", entity.RoleAdmin, "/dashboard", http.StatusOK, ""},
		{"signed in user leaves sign-in for callback", entity.RoleReader, "/auth/signin?callbackUrl=%2Fposts%2Fhello", http.StatusFound, "/posts/hello"},
		{"absolute callback ignored", entity.RoleReader, "/auth/signin?callbackUrl=https%3A%2F%2Fevil.example", http.StatusFound, "/"},
		{"protocol relative callback ignored", entity.RoleReader, "/auth/signin?callbackUrl=%2F%2Fevil.example", http.StatusFound, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.role != "" {
				req.AddCookie(f.cookieFor(t, tt.role))
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestAccessMiddleware_CrossOriginMutationDenied(t *testing.T) {
	f := newSessionFixtures(t)
	e := newAccessTestEcho(f)

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"same origin", "https://" + testHost, http.StatusOK},
		{"foreign origin", "https://evil.example", http.StatusForbidden},
		{"missing origin", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{}"))
			req.Host = testHost
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "FORBIDDEN", body.Error.Code)
				assert.Nil(t, body.Error.Details)
			}
		})
	}
}

func TestSessionMiddleware_InvalidCookieIsClearedAndAnonymous(t *testing.T) {
	f := newSessionFixtures(t)
	e := newAccessTestEcho(f)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: f.cfg.Session.CookieName, Value: "forged"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fdashboard", rec.Header().Get(echo.HeaderLocation))

	cleared := findCookie(rec.Result().Cookies(), f.cfg.Session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestSessionMiddleware_RequireSession(t *testing.T) {
	f := newSessionFixtures(t)
	e := f.newTestEcho()
	sessionMiddleware := NewSessionMiddleware(f.sessions, f.cookies, newDiscardLogger())
	e.GET("/api/auth/session", okHandler, sessionMiddleware.RequireSession)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(f.cookieFor(t, entity.RoleReader))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}
