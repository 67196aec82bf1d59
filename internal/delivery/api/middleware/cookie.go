package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/service"
	"blogauth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionCookies reads and writes the session cookie.
type SessionCookies struct {
	name   string
	secure bool
	now    func() time.Time
}

// NewSessionCookies is the constructor for SessionCookies. The cookie is
// Secure only in production so that local development works over plain HTTP.
func NewSessionCookies(cfg *config.Config) *SessionCookies {
	return &SessionCookies{
		name:   cfg.Session.CookieName,
		secure: cfg.IsProduction(),
		now:    time.Now,
	}
}

// Name returns the cookie name.
func (s *SessionCookies) Name() string {
	return s.name
}

// Read returns the raw session token, if the request carries one.
func (s *SessionCookies) Read(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

// Set writes sess to the response. The cookie lives as long as the session.
func (s *SessionCookies) Set(c echo.Context, sess *usecase.Session) {
	expires := sess.ExpiresAt()

	c.SetCookie(s.cookie(sess.Token, expires, int(expires.Sub(s.now()).Seconds())))
}

// Clear expires the cookie in the browser.
func (s *SessionCookies) Clear(c echo.Context) {
	c.SetCookie(s.cookie("", time.Unix(0, 0), -1))
}

func (s *SessionCookies) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// OAuthStateCookieName carries the state of an OAuth flow in progress.
const OAuthStateCookieName = "blogauth.oauth-state"

const oauthStateCookiePath = "/api/auth/oauth"

// OAuthStateCookie binds an OAuth flow to the browser that started it. A
// callback whose state does not match the cookie was not started here.
type OAuthStateCookie struct {
	secure bool
}

func NewOAuthStateCookie(cfg *config.Config) *OAuthStateCookie {
	return &OAuthStateCookie{secure: cfg.IsProduction()}
}

// Set remembers state for as long as the provider state itself lives.
func (o *OAuthStateCookie) Set(c echo.Context, state string) {
	c.SetCookie(o.cookie(state, int(service.OAuthStateTTL.Seconds())))
}

// Matches reports whether the request carries the cookie for state.
func (o *OAuthStateCookie) Matches(c echo.Context, state string) bool {
	cookie, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookie.Value == "" || state == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) == 1
}

func (o *OAuthStateCookie) Clear(c echo.Context) {
	c.SetCookie(o.cookie("", -1))
}

func (o *OAuthStateCookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     OAuthStateCookieName,
		Value:    value,
		Path:     oauthStateCookiePath,
		MaxAge:   maxAge,
		Secure:   o.secure,
		HttpOnly: true,
		// Lax still sends it on the provider's top-level redirect back.
		SameSite: http.SameSiteLaxMode,
	}
}
