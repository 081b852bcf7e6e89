package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	subscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "task_tracker",
		Subsystem: "hub",
		Name:      "subscriptions",
		Help:      "Open room subscriptions by room kind.",
	}, []string{"kind"})

	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_tracker",
		Subsystem: "hub",
		Name:      "messages_delivered_total",
		Help:      "Messages handed to subscribers by room kind.",
	}, []string{"kind"})

	dropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_tracker",
		Subsystem: "hub",
		Name:      "messages_dropped_total",
		Help:      "Messages dropped because a subscriber buffer was full.",
	}, []string{"kind"})

	relayErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "task_tracker",
		Subsystem: "hub",
		Name:      "relay_errors_total",
		Help:      "Relay messages that could not be published or decoded.",
	})
)
