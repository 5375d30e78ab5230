package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by action (register|login)
	// and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutline_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"action", "result"},
	)

	// CapabilityChecks counts capability gate evaluations and their outcome (allowed|denied|error).
	CapabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutline_capability_checks_total",
			Help: "Total number of capability checks on mutating endpoints",
		},
		[]string{"result"},
	)

	// SuggestionsSurfaced counts suggestions flipped from pending to surfaced.
	SuggestionsSurfaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutline_suggestions_surfaced_total",
			Help: "Total number of suggestions surfaced to dashboards",
		},
	)

	// SuggestionTriggers counts dispatcher invocations by reason and result.
	SuggestionTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutline_suggestion_triggers_total",
			Help: "Total number of suggestion rule evaluations",
		},
		[]string{"reason", "result"},
	)

	// CronRuns counts daily refresh batch executions by result (ok|partial|failed).
	CronRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutline_cron_runs_total",
			Help: "Total number of daily suggestion batch runs",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoutline_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
