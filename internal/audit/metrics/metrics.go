package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record kinds used as the "kind" label.
const (
	KindAuditLog      = "audit_log"
	KindSecurityEvent = "security_event"
	KindFailedLogin   = "failed_login"
)

type Metrics struct {
	AuditWritesTotal      *prometheus.CounterVec
	AuditWriteDuration    prometheus.Histogram
	LockoutChecksTotal    *prometheus.CounterVec
	AuditCircuitOpenTotal prometheus.Counter
}

// New registers the audit collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuditWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_audit_writes_total",
			Help: "Total number of audit writes by record kind and outcome",
		}, []string{"kind", "outcome"}),
		AuditWriteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storeguard_audit_write_duration_seconds",
			Help:    "Duration of audit store writes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3},
		}),
		LockoutChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_lockout_checks_total",
			Help: "Total number of account lockout checks by outcome",
		}, []string{"outcome"}),
		AuditCircuitOpenTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "storeguard_audit_circuit_open_total",
			Help: "Total number of times the audit store circuit opened",
		}),
	}
}

func (m *Metrics) IncWritten(kind string) {
	m.AuditWritesTotal.WithLabelValues(kind, "written").Inc()
}

func (m *Metrics) IncFailed(kind string) {
	m.AuditWritesTotal.WithLabelValues(kind, "failed").Inc()
}

// IncDropped counts writes skipped because the circuit was open.
func (m *Metrics) IncDropped(kind string) {
	m.AuditWritesTotal.WithLabelValues(kind, "dropped").Inc()
}

func (m *Metrics) ObserveWriteDuration(seconds float64) {
	m.AuditWriteDuration.Observe(seconds)
}

func (m *Metrics) IncLockoutCheck(outcome string) {
	m.LockoutChecksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncCircuitOpened() {
	m.AuditCircuitOpenTotal.Inc()
}
