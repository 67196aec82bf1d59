package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogauth/internal/delivery/api/response"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, response.ErrorResponse) {
	t.Helper()

	m := NewErrorMiddleware(newDiscardLogger())
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil), rec)

	m.HandleHTTPError(err, c)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestErrorMiddleware_AuthFailureIsGeneric(t *testing.T) {
	err := errors.Wrap(domainerrors.NewAuthError(domainerrors.FailureEmailNotVerified, nil), "sign in")

	rec, body := renderError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
	assert.Equal(t, "Invalid email or password", body.Error.Message)
	assert.NotContains(t, rec.Body.String(), "verified")
}

func TestErrorMiddleware_ValidationDetails(t *testing.T) {
	err := domainerrors.NewValidationError([]domainerrors.FieldError{{Field: "email", Message: "Invalid email address"}})

	rec, body := renderError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, []any{map[string]any{"field": "email", "message": "Invalid email address"}}, body.Error.Details)
}

func TestErrorMiddleware_RateLimitedSetsRetryAfter(t *testing.T) {
	resetAt := time.Date(2025, 1, 1, 12, 14, 30, 500_000_000, time.UTC)
	err := domainerrors.NewRateLimitedError(resetAt).WithPublicMessage("Too many signup attempts. Please try again later.")

	rec, body := renderError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "871", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
	assert.Equal(t, "Too many signup attempts. Please try again later.", body.Error.Message)
	assert.Equal(t, map[string]any{"resetTime": float64(resetAt.UnixMilli())}, body.Error.Details)
}

func TestErrorMiddleware_InternalDetailsStripped(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3")
	err := domainerrors.NewAuthError(domainerrors.FailureStoreUnavailable, cause)

	rec, body := renderError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Nil(t, body.Error.Details)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestErrorMiddleware_UnknownAndEchoErrors(t *testing.T) {
	rec, body := renderError(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)

	rec, body = renderError(t, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
}
