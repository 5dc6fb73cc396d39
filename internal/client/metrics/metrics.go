// Package metrics holds the Prometheus collectors of the collaboration client.
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
	ResultSkipped = "skipped"
	ResultApplied = "applied"
	ResultIgnored = "ignored"
)

// Metrics счетчики синхронизации
type Metrics struct {
	// RecorderOps counts recorded local edits.
	// Labels: operation (insert_cell, delete_cell, cell_content), result
	RecorderOps *prometheus.CounterVec

	// ReplicatorEvents counts remote events handled by the replicator.
	// Labels: event (inserted, removed, moved, replaced, source), result
	ReplicatorEvents *prometheus.CounterVec

	// Sessions counts join and leave attempts.
	// Labels: action (join, leave), result
	Sessions *prometheus.CounterVec
}

// New регистрирует счетчики в reg. nil означает отдельный registry,
// удобный для тестов и встраивания.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RecorderOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "operations_total",
			Help:      "Local edits recorded on the collaboration backend by operation and result",
		}, []string{"operation", "result"}),
		ReplicatorEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replicator",
			Name:      "events_total",
			Help:      "Remote events handled by the replicator by event and result",
		}, []string{"event", "result"}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "sessions_total",
			Help:      "Collaboration session transitions by action and result",
		}, []string{"action", "result"}),
	}
}

// Record увеличивает счетчик операции записи
func (m *Metrics) Record(operation, result string) {
	m.RecorderOps.WithLabelValues(operation, result).Inc()
}

// Event увеличивает счетчик события репликации
func (m *Metrics) Event(event, result string) {
	m.ReplicatorEvents.WithLabelValues(event, result).Inc()
}

// Session увеличивает счетчик переходов сессии
func (m *Metrics) Session(action, result string) {
	m.Sessions.WithLabelValues(action, result).Inc()
}
