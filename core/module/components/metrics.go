package components

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	crashesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crash_detected_total",
		Help: "Number of registered faults classified as crashes",
	})

	timeoutsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeout_detected_total",
		Help: "Number of runs stopped by the iteration time budget",
	})

	coverageEdges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coverage_edges_total",
		Help: "Number of unique coverage edges seen this session",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "run_duration_seconds",
		Help:    "Latency of one fuzzing iteration",
		Buckets: prometheus.DefBuckets,
	})
)
