// Package metrics holds the Prometheus collectors of the collaboration backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mythic"

// Значения label result
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics счетчики backend
type Metrics struct {
	// Operations counts executed queries and mutations.
	// Labels: operation, result
	Operations *prometheus.CounterVec

	// Published counts events delivered to subscribers.
	// Labels: operation (cellOrder, cellSource)
	Published *prometheus.CounterVec

	// Dropped counts subscribers closed because their buffer was full.
	Dropped prometheus.Counter

	// Subscribers is the number of open subscriptions.
	Subscribers prometheus.Gauge
}

// New регистрирует счетчики в reg. nil означает отдельный registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "operations_total",
			Help:      "Executed queries and mutations by operation and result",
		}, []string{"operation", "result"}),
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "events_delivered_total",
			Help:      "Subscription events delivered to subscribers",
		}, []string{"operation"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "subscribers_dropped_total",
			Help:      "Subscribers closed because they did not keep up",
		}),
		Subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "subscribers",
			Help:      "Open subscriptions",
		}),
	}
}

// Operation увеличивает счетчик операции
func (m *Metrics) Operation(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}
