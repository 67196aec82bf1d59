// Package metrics exposes authentication counters to Prometheus.
package metrics

import (
	"net/http"

	"blogauth/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple binaries never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	RateLimitDecisions *prometheus.CounterVec
	Sessions           *prometheus.CounterVec
	AuthAttempts       *prometheus.CounterVec
}

var _ service.AuthMetrics = (*Metrics)(nil)

// New creates the registry with Go runtime and process collectors plus the
// auth counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RateLimitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogauth_rate_limit_decisions_total",
				Help: "Total number of rate limit decisions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogauth_sessions_total",
				Help: "Total number of session events by type",
			},
			[]string{"event"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogauth_auth_attempts_total",
				Help: "Total number of sign-in attempts by method and outcome",
			},
			[]string{"method", "outcome"},
		),
	}

	reg.MustRegister(m.RateLimitDecisions, m.Sessions, m.AuthAttempts)

	return m
}

// AsAuthMetrics exposes m through the domain interface.
func AsAuthMetrics(m *Metrics) service.AuthMetrics {
	return m
}

func (m *Metrics) RecordRateLimitDecision(action, outcome string) {
	m.RateLimitDecisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordSessionEvent(event string) {
	m.Sessions.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordAuthAttempt(method, outcome string) {
	m.AuthAttempts.WithLabelValues(method, outcome).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Noop discards every observation.
type Noop struct{}

func (Noop) RecordRateLimitDecision(string, string) {}
func (Noop) RecordSessionEvent(string)              {}
func (Noop) RecordAuthAttempt(string, string)       {}
