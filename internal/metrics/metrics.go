// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync results used as the "result" label.
const (
	ResultUpdated    = "updated"
	ResultNotUpdated = "not_updated"
	ResultFailed     = "failed"
	ResultNotFound   = "not_found"
)

var (
	// SyncTotal counts single-movie syncs by outcome.
	SyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_sync_total",
			Help: "Number of movie metadata syncs by result",
		},
		[]string{"result"},
	)

	// FetchDuration observes reference page fetch + extraction time.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movie_sync_fetch_seconds",
			Help:    "Time spent fetching and extracting reference pages",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BatchRuns counts completed batch runs.
	BatchRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movie_batch_runs_total",
			Help: "Number of completed batch update runs",
		},
	)

	// ScraperRequests counts reference-site requests by outcome.
	ScraperRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_scraper_requests_total",
			Help: "Reference site requests by outcome",
		},
		[]string{"outcome"},
	)
)
