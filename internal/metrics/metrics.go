package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concord_broker_events_published_total",
		Help: "Total events published to the broker.",
	})
	EventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concord_broker_events_delivered_total",
		Help: "Total listener deliveries performed by the broker.",
	})

	OnlineConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "concord_ws_online_conns",
		Help: "Current online websocket connections (approx).",
	})
	SlowConsumerDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concord_ws_slow_consumer_drops_total",
		Help: "Total messages dropped because a client buffer was full.",
	})

	MessagesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concord_messages_created_total",
		Help: "Total messages persisted across channels and conversations.",
	})
	MessagesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concord_messages_deleted_total",
		Help: "Total messages soft-deleted.",
	})
)

func Register() {
	prometheus.MustRegister(
		EventsPublished, EventsDelivered,
		OnlineConns, SlowConsumerDrops,
		MessagesCreated, MessagesDeleted,
	)
}
