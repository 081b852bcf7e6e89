package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_tracker",
		Subsystem: "notify",
		Name:      "events_total",
		Help:      "Domain events emitted by kind.",
	}, []string{"kind"})

	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_tracker",
		Subsystem: "notify",
		Name:      "failures_total",
		Help:      "Notifier failures by event kind.",
	}, []string{"kind"})
)
