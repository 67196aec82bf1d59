package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"blogauth/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Secret1!"
)

func signupBody(email string) map[string]string {
	return map[string]string{"name": "Ada Lovelace", "email": email, "password": testPassword}
}

// signupAndVerify registers testEmail through the API and follows its
// verification link.
func signupAndVerify(t *testing.T, f *apiFixtures) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody(testEmail))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token := f.lastEvent(t, service.MailVerificationRequested).Token
	rec = f.do(t, http.MethodGet, "/api/auth/verify-email?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/auth/signin?message=verified", rec.Header().Get(echo.HeaderLocation))
}

func TestAuthHandler_Signup(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody("Ada@Example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body SignupResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))
	assert.Equal(t, msgSignupCreated, body.Message)
	assert.Equal(t, testEmail, body.User.Email)
	assert.Equal(t, "Ada Lovelace", body.User.Name)
	assert.NotEmpty(t, body.User.ID)

	event := f.lastEvent(t, service.MailVerificationRequested)
	assert.Equal(t, testEmail, event.Email)
	assert.NotEmpty(t, event.Token)
	assert.NotContains(t, rec.Body.String(), event.Token)
	assert.Equal(t, 1, f.store.Stats().VerificationTokens)
}

func TestAuthHandler_Signup_DuplicateIsConflict(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody(testEmail))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/signup", signupBody("ADA@example.com"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", env.Error.Message)
	assert.Equal(t, 1, f.store.Stats().Users)
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "A", "email": "nope", "password": "password"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	var fields []map[string]string
	require.NoError(t, json.Unmarshal(env.Error.Details, &fields))
	got := make(map[string]string, len(fields))
	for _, field := range fields {
		got[field["field"]] = field["message"]
	}
	assert.Equal(t, map[string]string{
		"name":     "Name must be at least 2 characters",
		"email":    "Invalid email address",
		"password": "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character",
	}, got)
	assert.Zero(t, f.store.Stats().Users)
}

func TestAuthHandler_Signup_PasswordLength(t *testing.T) {
	longest := "Aa1@" + strings.Repeat("x", 68)
	require.Len(t, longest, 72)

	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "Ada Lovelace", "email": testEmail, "password": longest})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": testEmail, "password": longest})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "unverified accounts cannot sign in yet")

	rec = f.do(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "Ada Lovelace", "email": "long@example.com", "password": longest + "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "Password must be at most 72 characters")
	assert.Equal(t, 1, f.store.Stats().Users)
}

func TestAuthHandler_Signup_MalformedBody(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandler_Signup_RateLimited(t *testing.T) {
	f := newAPIFixtures(t)

	for i := range 3 {
		rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody("user"+string(rune('a'+i))+"@example.com"))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody("late@example.com"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "resetTime")
	assert.Equal(t, 3, f.store.Stats().Users)
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	f := newAPIFixtures(t)
	signupAndVerify(t, f)

	token := f.lastEvent(t, service.MailVerificationRequested).Token

	tests := []struct {
		name   string
		target string
	}{
		{"reused token", "/api/auth/verify-email?token=" + url.QueryEscape(token)},
		{"unknown token", "/api/auth/verify-email?token=bogus"},
		{"missing token", "/api/auth/verify-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/auth/error?error=Verification", rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestAuthHandler_Signin(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/signup", signupBody(testEmail))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unverified accounts get the same answer as a wrong password.
	creds := map[string]string{"email": testEmail, "password": testPassword}
	rec = f.do(t, http.MethodPost, "/api/auth/signin", creds)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	unverified := decodeEnvelope(t, rec).Error

	rec = f.do(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": testEmail, "password": "Wrong1!x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	wrong := decodeEnvelope(t, rec).Error

	assert.Equal(t, "INVALID_CREDENTIALS", unverified.Code)
	assert.Equal(t, wrong.Code, unverified.Code)
	assert.Equal(t, wrong.Message, unverified.Message)

	token := f.lastEvent(t, service.MailVerificationRequested).Token
	rec = f.do(t, http.MethodGet, "/api/auth/verify-email?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/signin", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookie := f.sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.False(t, cookie.Secure)

	var signedIn SessionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &signedIn))
	assert.Equal(t, "READER", signedIn.Role)
	assert.Equal(t, testEmail, signedIn.User.Email)

	rec = f.do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var current SessionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &current))
	assert.Equal(t, signedIn.UserID, current.UserID)
	assert.True(t, signedIn.ExpiresAt.Equal(current.ExpiresAt))
}

func TestAuthHandler_SessionRequiresCookie(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandler_Signout(t *testing.T) {
	f := newAPIFixtures(t)
	signupAndVerify(t, f)

	rec := f.do(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := f.sessionCookie(t, rec)

	rec = f.do(t, http.MethodPost, "/api/auth/signout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := f.sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	f := newAPIFixtures(t)
	signupAndVerify(t, f)

	rec := f.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	unknown := string(decodeEnvelope(t, rec).Data)

	rec = f.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": testEmail})
	require.Equal(t, http.StatusOK, rec.Code)
	known := string(decodeEnvelope(t, rec).Data)

	assert.Equal(t, unknown, known)
	assert.Contains(t, known, "If an account with that email exists")

	resetToken := f.lastEvent(t, service.MailPasswordResetRequested).Token
	newPassword := "Brand9New&"

	rec = f.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": resetToken, "password": newPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), msgPasswordReset)

	rec = f.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": resetToken, "password": newPassword})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", decodeEnvelope(t, rec).Error.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": testEmail, "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": testEmail, "password": newPassword})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_ResetPassword_Validation(t *testing.T) {
	f := newAPIFixtures(t)

	rec := f.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": "", "password": "weak"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rec).Error.Code)

	tooLong := "Aa1@" + strings.Repeat("x", 69)
	rec = f.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": "some-token", "password": tooLong})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, string(decodeEnvelope(t, rec).Error.Details), "Password must be at most 72 characters")
}
