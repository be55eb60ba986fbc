// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityapi_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "communityapi_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionTransitions counts reaction state transitions by from/to state.
	ReactionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityapi_reaction_transitions_total",
		Help: "Total number of post reaction state transitions",
	}, []string{"from", "to"})

	// CascadeDeletions counts cascading customer deletions by outcome.
	CascadeDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communityapi_cascade_deletions_total",
		Help: "Total number of cascading customer deletions",
	}, []string{"outcome"})

	// MediaDeleteFailures counts best-effort media deletions that failed.
	MediaDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "communityapi_media_delete_failures_total",
		Help: "Total number of failed best-effort media file deletions",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
