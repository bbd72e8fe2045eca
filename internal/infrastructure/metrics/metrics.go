package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Per-intent routing outcomes
	IntentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "intent_total",
			Help:      "Messages routed per intent",
		},
		[]string{"intent"},
	)

	// Pending-action lifecycle
	PendingStagedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "pending_actions_staged_total",
			Help:      "Pending actions staged, by kind",
		},
		[]string{"kind"},
	)

	PendingResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "pending_actions_resolved_total",
			Help:      "Pending actions resolved, by kind and outcome (confirmed, cancelled, replaced)",
		},
		[]string{"kind", "outcome"},
	)

	// Capability port failures
	CapabilityErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "capability_errors_total",
			Help:      "Failures per capability port",
		},
		[]string{"capability"},
	)

	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursegpt",
			Subsystem: "server",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)
)

// RecordRequest records a completed HTTP request.
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIntent records which intent handled a message.
func RecordIntent(intent string) {
	IntentTotal.WithLabelValues(intent).Inc()
}

// RecordCapabilityError records a capability port failure.
func RecordCapabilityError(capability string) {
	CapabilityErrorsTotal.WithLabelValues(capability).Inc()
}
