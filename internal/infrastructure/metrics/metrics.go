package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OnlineConnections tracks live websocket connections.
	OnlineConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "parley",
		Name:      "online_connections",
		Help:      "Number of open websocket connections.",
	})

	// OnlineUsers tracks distinct users with at least one connection.
	OnlineUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "parley",
		Name:      "online_users",
		Help:      "Number of distinct users currently online.",
	})

	// MessagesSent counts persisted messages by payload type.
	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parley",
		Name:      "messages_sent_total",
		Help:      "Messages persisted, labeled by payload type.",
	}, []string{"type"})

	// BroadcastsDelivered counts realtime frames fanned out to connections.
	BroadcastsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parley",
		Name:      "broadcasts_delivered_total",
		Help:      "Realtime event frames delivered to connections.",
	})

	// StatusTransitions counts message status advances by target status.
	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parley",
		Name:      "status_transitions_total",
		Help:      "Message status transitions, labeled by target status.",
	}, []string{"to"})
)

// Register installs all collectors on the default registry. Call once at startup.
func Register() {
	prometheus.MustRegister(
		OnlineConnections,
		OnlineUsers,
		MessagesSent,
		BroadcastsDelivered,
		StatusTransitions,
	)
}
