package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storeguard/internal/ratelimit/models"
)

type Metrics struct {
	RateLimitChecksTotal            *prometheus.CounterVec
	RateLimitCleanupEntriesPruned   prometheus.Counter
	RateLimitCleanupRunsTotal       *prometheus.CounterVec
	RateLimitCleanupDurationSeconds prometheus.Histogram
}

// New registers the rate limit collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_ratelimit_checks_total",
			Help: "Total number of rate limit checks by action and outcome",
		}, []string{"action", "outcome"}),
		RateLimitCleanupEntriesPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "storeguard_ratelimit_cleanup_entries_pruned_total",
			Help: "Total number of expired rate limit entries pruned by the cleanup worker",
		}),
		RateLimitCleanupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_ratelimit_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		RateLimitCleanupDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "storeguard_ratelimit_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) IncAllowed(action models.Action) {
	m.RateLimitChecksTotal.WithLabelValues(actionLabel(action), "allowed").Inc()
}

func (m *Metrics) IncDenied(action models.Action) {
	m.RateLimitChecksTotal.WithLabelValues(actionLabel(action), "denied").Inc()
}

// actionLabel keeps label cardinality bounded to known actions.
func actionLabel(action models.Action) string {
	switch action {
	case models.ActionLogin, models.ActionAdminLogin, models.ActionCreateOrder,
		models.ActionPasswordReset, models.ActionCreateProduct, models.ActionAPICall, models.ActionSearch:
		return string(action)
	}
	return "other"
}
