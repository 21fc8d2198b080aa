package module

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	iterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "module_iterations_total",
		Help: "Number of harness entries observed this session",
	})

	stopReasonTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "module_stop_reason_total",
		Help: "Classified simulation stops by reason",
	}, []string{"reason"})

	snapshotSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "module_snapshot_saves_total",
		Help: "Baseline snapshots taken (expected once per session)",
	})
)
