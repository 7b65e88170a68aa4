package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics tracks how the publisher disposes of each event.
type OutboxMetrics struct {
	events *prometheus.CounterVec
}

const (
	OutboxPublished    = "published"
	OutboxRetried      = "retried"
	OutboxDeadLettered = "dead_lettered"
)

func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "events_total",
		Help:      "Outbox events by type and outcome.",
	}, []string{"event_type", "outcome"})
	reg.MustRegister(events)
	return &OutboxMetrics{events: events}
}

func (m *OutboxMetrics) Inc(eventType, outcome string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(eventType), outcome).Inc()
}
