package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type eventMetrics struct {
	persisted *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking the event sink.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			persisted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "fund",
				Subsystem: "events",
				Name:      "persisted_total",
				Help:      "Count of ledger events written to the event store segmented by type.",
			}, []string{"type"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "fund",
				Subsystem: "events",
				Name:      "failures_total",
				Help:      "Count of ledger events the event store failed to persist.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.persisted, eventRegistry.failures)
	})
	return eventRegistry
}

// RecordPersisted increments the persisted counter for the event type.
func (m *eventMetrics) RecordPersisted(eventType string) {
	if m == nil {
		return
	}
	m.persisted.WithLabelValues(normalizeType(eventType)).Inc()
}

// RecordFailure increments the failure counter for the event type.
func (m *eventMetrics) RecordFailure(eventType string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(normalizeType(eventType)).Inc()
}

func normalizeType(eventType string) string {
	normalized := strings.TrimSpace(strings.ToLower(eventType))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
