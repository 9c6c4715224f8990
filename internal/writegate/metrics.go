package writegate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "memoboard",
		Subsystem: "writegate",
		Name:      "submissions_total",
		Help:      "Writers accepted into the gate.",
	})

	queueFullTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "memoboard",
		Subsystem: "writegate",
		Name:      "queue_full_total",
		Help:      "Writers rejected because the queue stayed full.",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "memoboard",
		Subsystem: "writegate",
		Name:      "queue_depth",
		Help:      "Writers currently queued.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "memoboard",
		Subsystem: "writegate",
		Name:      "run_duration_seconds",
		Help:      "Time spent executing a single writer.",
	})
)
