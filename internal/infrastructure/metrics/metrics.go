package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HelperCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helper_cache_requests_total",
			Help: "Verified helper cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	MatchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_results_returned",
			Help:    "Number of helpers returned per match request",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)

	MatchExplanations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_explanations_total",
			Help: "Match explanations served by source (ai, template)",
		},
		[]string{"source"},
	)
)
