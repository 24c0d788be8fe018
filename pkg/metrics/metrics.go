package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by the auth core.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeLocked             = "locked"
	OutcomeDisabled           = "disabled"
	OutcomeError              = "error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	LoginAttempts *prometheus.CounterVec
	AccountLocks  prometheus.Counter
	Registrations *prometheus.CounterVec
	AuthFailures  *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	registry      *prometheus.Registry
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puremilk_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		AccountLocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "puremilk_account_locks_total",
				Help: "Accounts locked after repeated failed logins",
			},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puremilk_registrations_total",
				Help: "Created accounts by role",
			},
			[]string{"role"},
		),
		AuthFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puremilk_auth_failures_total",
				Help: "Rejected bearer-token authentications by reason",
			},
			[]string{"reason"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puremilk_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "puremilk_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.LoginAttempts,
		m.AccountLocks,
		m.Registrations,
		m.AuthFailures,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
