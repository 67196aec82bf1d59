package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogauth/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.RecordRateLimitDecision("signup", service.RateLimitDenied)
	m.RecordRateLimitDecision("signup", service.RateLimitDenied)
	m.RecordSessionEvent(service.SessionIssued)
	m.RecordAuthAttempt("password", "success")

	assert.InDelta(t, 2, testutil.ToFloat64(m.RateLimitDecisions.WithLabelValues("signup", service.RateLimitDenied)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Sessions.WithLabelValues(service.SessionIssued)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("password", "success")), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordSessionEvent(service.SessionRefreshed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `blogauth_sessions_total{event="refreshed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
