// Package metrics exposes Prometheus instrumentation for browsing sessions, searches and
// the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	OutcomeFiltered = "filtered"
	OutcomeEmpty    = "empty"
	OutcomeInvalid  = "invalid"
)

var (
	// Browsing

	FilterSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookconnect_filter_submissions_total",
			Help: "Filter submissions by outcome",
		},
		[]string{"outcome"},
	)

	FilterMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookconnect_filter_matches",
			Help:    "Number of books matched by accepted filter submissions",
			Buckets: []float64{0, 1, 5, 10, 36, 72, 144, 500, 1000, 5000},
		},
	)

	BatchesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookconnect_batches_served_total",
			Help: "Preview batches revealed to clients",
		},
	)

	BooksRevealed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookconnect_books_revealed_total",
			Help: "Previews revealed across all batches",
		},
	)

	Selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookconnect_selections_total",
			Help: "Detail view requests by result",
		},
		[]string{"result"}, // "found", "not_found"
	)

	// Sessions

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookconnect_sessions_active",
			Help: "Browsing sessions currently held in memory",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookconnect_sessions_expired_total",
			Help: "Sessions dropped for inactivity",
		},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookconnect_stream_clients",
			Help: "Connected render stream clients",
		},
	)

	// HTTP

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookconnect_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookconnect_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookconnect_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// Catalog

	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookconnect_catalog_books",
			Help: "Books in the loaded catalog",
		},
	)
)

// RecordFilterSubmission records an accepted or rejected search.
func RecordFilterSubmission(outcome string, matches int) {
	FilterSubmissions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalid {
		FilterMatches.Observe(float64(matches))
	}
}

// RecordBatch records a revealed batch. Empty batches are not counted.
func RecordBatch(size int) {
	if size == 0 {
		return
	}
	BatchesServed.Inc()
	BooksRevealed.Add(float64(size))
}

// RecordSelection records a detail lookup.
func RecordSelection(found bool) {
	result := "found"
	if !found {
		result = "not_found"
	}
	Selections.WithLabelValues(result).Inc()
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
