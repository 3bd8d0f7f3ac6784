// Package metrics provides Prometheus metrics collection for server and
// analysis pipeline monitoring. It exports HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// plus pipeline metrics covering model calls, JSON recovery, and the
// heuristic confidence fallback.
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	LLMRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_request_total",
			Help: "Total model generation calls by analysis mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Model generation call latency",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"mode"},
	)

	JSONRecoveryTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "json_recovery_total",
			Help: "JSON recovery attempts on model output by outcome",
		},
		[]string{"outcome"},
	)

	HeuristicFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heuristic_fallback_total",
			Help: "Times low model confidence triggered the keyword heuristic fallback",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Sessions currently holding an analysis result",
		},
	)
)

// Outcome label values for LLMRequestTotals and JSONRecoveryTotals.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
	OutcomeRecovered = "recovered"
	OutcomeFailed    = "failed"
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(LLMRequestTotals)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(JSONRecoveryTotals)
	prometheus.MustRegister(HeuristicFallbackTotal)
	prometheus.MustRegister(ActiveSessions)
}
