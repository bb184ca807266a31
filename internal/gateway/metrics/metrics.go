package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the gateway collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storeguard_gateway_operations_total",
			Help: "Total number of gateway operations by method and outcome",
		}, []string{"method", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storeguard_gateway_operation_duration_seconds",
			Help:    "Duration of gateway operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (m *Metrics) IncOperation(method, outcome string) {
	m.OperationsTotal.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) ObserveDuration(method string, seconds float64) {
	m.OperationDuration.WithLabelValues(method).Observe(seconds)
}
