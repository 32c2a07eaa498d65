package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts",
		},
		[]string{"operation", "status"},
	)

	retryBackoffDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_backoff_duration_seconds",
			Help:    "Time spent waiting between retry attempts",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"operation"},
	)

	retryOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_operation_duration_seconds",
			Help:    "Total duration of operations executed with retries",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation", "status"},
	)
)
