// Package metrics provides Prometheus metrics for the OpenBNF server.
// HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - rate_limiter_buckets_total: Gauge of live per-IP buckets
//
// Search and data:
//   - search_outcomes_total: Counter with the outcome label (exact_single, matched, no_match)
//   - search_suggestions: Histogram of suggestions returned when nothing matched
//   - name_index_size: Gauge of names held by the startup name index
//   - store_up: Gauge set to 1 while the record store answers pings
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
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

	SearchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_outcomes_total",
			Help: "Searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchSuggestions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_suggestions",
			Help:    "Number of suggestions returned for queries without matches",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	NameIndexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "name_index_size",
			Help: "Drug names held by the name index built at startup",
		},
	)

	StoreUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_up",
			Help: "Whether the record store answered the last ping (1) or not (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SearchOutcomes)
	prometheus.MustRegister(SearchSuggestions)
	prometheus.MustRegister(NameIndexSize)
	prometheus.MustRegister(StoreUp)
}
