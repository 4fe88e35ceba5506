// Package telemetry exposes Prometheus collectors for the audit service.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	auditsTotal                *prometheus.CounterVec
	fetchAttemptsTotal         *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	rateLimitRejectedTotal     prometheus.Counter
	narrativeOutcomesTotal     *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		auditsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageaudit_audits_total",
				Help: "Total number of audits performed, labeled by goal and outcome.",
			},
			[]string{"goal", "outcome"},
		)

		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageaudit_fetch_attempts_total",
				Help: "Total fetch attempts, labeled by strategy and result.",
			},
			[]string{"strategy", "result"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pageaudit_fetch_duration_seconds",
				Help:    "Histogram of fetch latencies, labeled by strategy.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 25},
			},
			[]string{"strategy"},
		)

		rateLimitRejectedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pageaudit_rate_limit_rejected_total",
				Help: "Total requests rejected by the per-client rate limiter.",
			},
		)

		narrativeOutcomesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageaudit_narrative_outcomes_total",
				Help: "Narrative generation outcomes: ok, retried, degraded.",
			},
			[]string{"outcome"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pageaudit_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// ObserveAudit records one completed audit.
func ObserveAudit(goal, outcome string) {
	if auditsTotal == nil {
		return
	}
	auditsTotal.WithLabelValues(goal, outcome).Inc()
}

// ObserveFetch records one fetch attempt.
func ObserveFetch(strategy, result string, duration time.Duration) {
	if fetchAttemptsTotal == nil {
		return
	}
	fetchAttemptsTotal.WithLabelValues(strategy, result).Inc()
	fetchDurationSeconds.WithLabelValues(strategy).Observe(duration.Seconds())
}

// IncRateLimited records one rate-limit rejection.
func IncRateLimited() {
	if rateLimitRejectedTotal == nil {
		return
	}
	rateLimitRejectedTotal.Inc()
}

// ObserveNarrative records a narrative generation outcome.
func ObserveNarrative(outcome string) {
	if narrativeOutcomesTotal == nil {
		return
	}
	narrativeOutcomesTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records one HTTP request latency.
func ObserveHTTPRequest(method, route string, duration time.Duration) {
	if httpRequestDurationSeconds == nil {
		return
	}
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
