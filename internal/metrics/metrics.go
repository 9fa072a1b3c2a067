// Package metrics holds the Prometheus instruments for the recommendation
// engine, its external capabilities, and the HTTP transport.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Capability labels for external calls.
const (
	CapabilityInsight     = "insight"
	CapabilityMatch       = "match"
	CapabilityExplanation = "explanation"
)

// Results of an external call.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultTimeout = "timeout"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hairmatch_recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "outcome"}, // outcome: "ranked", "fallback"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hairmatch_recommendation_duration_seconds",
			Help:    "Duration of a full recommendation pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// External capability metrics
	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hairmatch_external_calls_total",
			Help: "Total number of calls to external model capabilities",
		},
		[]string{"capability", "result"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hairmatch_external_call_duration_seconds",
			Help:    "Duration of external model calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"capability"},
	)

	// Insight cache
	InsightCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hairmatch_insight_cache_hits_total",
			Help: "Total number of insight extraction cache hits",
		},
	)

	InsightCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hairmatch_insight_cache_misses_total",
			Help: "Total number of insight extraction cache misses",
		},
	)

	// Session store
	SessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hairmatch_session_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// LLM circuit breaker state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hairmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hairmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hairmatch_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordRecommendation records one completed recommendation pass.
func RecordRecommendation(strategy string, fallback bool, duration time.Duration) {
	outcome := "ranked"
	if fallback {
		outcome = "fallback"
	}
	RecommendationsTotal.WithLabelValues(strategy, outcome).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordExternalCall records the outcome of one capability call.
func RecordExternalCall(capability, result string, duration time.Duration) {
	ExternalCallsTotal.WithLabelValues(capability, result).Inc()
	ExternalCallDuration.WithLabelValues(capability).Observe(duration.Seconds())
}

// RecordInsightCache records a cache lookup.
func RecordInsightCache(hit bool) {
	if hit {
		InsightCacheHits.Inc()
		return
	}
	InsightCacheMisses.Inc()
}

// RecordSessionOperation records a session store call.
func RecordSessionOperation(backend, operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	SessionOperations.WithLabelValues(backend, operation, result).Inc()
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes the numeric breaker state.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
