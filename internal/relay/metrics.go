package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes relay counters for the /metrics endpoint.
type Metrics struct {
	ConnectedSessions    prometheus.Gauge
	MessagesRelayed      prometheus.Counter
	ConversationsCreated prometheus.Counter
	FramesRejected       prometheus.Counter
}

// NewMetrics registers the relay collectors with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectedSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "relay_connected_sessions",
			Help: "Number of currently connected sessions.",
		}),
		MessagesRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Total messages appended to the store.",
		}),
		ConversationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_conversations_created_total",
			Help: "Total conversation memberships created by message fan-out.",
		}),
		FramesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_frames_rejected_total",
			Help: "Inbound frames dropped for auth or protocol violations.",
		}),
	}
}
