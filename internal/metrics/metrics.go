// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion Metrics
var (
	// PostsIngestedTotal tracks post submissions by platform and result
	PostsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_ingested_total",
			Help: "Total post submissions by platform and result (ok/validation/partial/unavailable/error)",
		},
		[]string{"platform", "result"},
	)

	// IngestDuration tracks end-to-end submission latency
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Post submission duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// HashtagsLinkedTotal tracks hashtag links created during ingestion
	HashtagsLinkedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hashtags_linked_total",
			Help: "Total post-hashtag links created",
		},
	)

	// UsersCreatedTotal tracks users created lazily on first reference
	UsersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total users created on first post submission",
		},
	)
)

// Analytics Metrics
var (
	// AnalyticsQueryDuration tracks aggregation query latency by query name
	AnalyticsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Aggregation query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// AnalyticsQueryErrorsTotal tracks aggregation failures by query name
	AnalyticsQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_query_errors_total",
			Help: "Total aggregation query errors by query",
		},
		[]string{"query"},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// HTTP Error Metrics
// Note: http_errors_total{type} is provided by internal/errors package
