package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "client_runs_total",
		Help: "Testcases submitted to the module",
	})

	stopReasonTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "client_stop_reason_total",
		Help: "Stop reasons reported back by the module",
	}, []string{"reason"})
)
