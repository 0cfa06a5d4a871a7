package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoreSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_submissions_total",
			Help: "Total number of score submissions by outcome",
		},
		[]string{"outcome"}, // created | updated
	)

	BatchRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_batch_rejections_total",
			Help: "Number of batch submissions rejected without persisting anything",
		},
	)

	ResultsComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_computations_total",
			Help: "Ranking computations by source",
		},
		[]string{"source"}, // cache | store
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
