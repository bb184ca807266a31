package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the admin session lifecycle.
type Metrics struct {
	LoginAttemptsTotal    *prometheus.CounterVec
	RefreshesTotal        *prometheus.CounterVec
	RefreshDuration       prometheus.Histogram
	LogoutsTotal          *prometheus.CounterVec
	RateLimitCheckErrors  prometheus.Counter
	LockoutDegradedLogins prometheus.Counter
}

// New registers the auth collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_login_attempts_total",
			Help: "Total number of admin login attempts by outcome",
		}, []string{"outcome"}),
		RefreshesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_token_refreshes_total",
			Help: "Total number of access token refresh calls by outcome",
		}, []string{"outcome"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storeguard_token_refresh_duration_seconds",
			Help:    "Duration of access token refresh calls in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LogoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_logouts_total",
			Help: "Total number of session logouts by reason",
		}, []string{"reason"}),
		RateLimitCheckErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "storeguard_login_ratelimit_check_errors_total",
			Help: "Total number of login rate limit check failures (fail-open events)",
		}),
		LockoutDegradedLogins: factory.NewCounter(prometheus.CounterOpts{
			Name: "storeguard_login_lockout_degraded_total",
			Help: "Total number of logins that proceeded without a completed lockout check",
		}),
	}
}

func (m *Metrics) IncLogin(outcome string) {
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncRefresh(outcome string) {
	m.RefreshesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRefreshDuration(seconds float64) {
	m.RefreshDuration.Observe(seconds)
}

func (m *Metrics) IncLogout(reason string) {
	m.LogoutsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncRateLimitCheckError() {
	m.RateLimitCheckErrors.Inc()
}

func (m *Metrics) IncLockoutDegraded() {
	m.LockoutDegradedLogins.Inc()
}
