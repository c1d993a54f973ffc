package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for the realtime subsystem.
type WebSocketMetrics struct {
	ActiveConnections prometheus.Gauge
	EventsDelivered   prometheus.Counter
	EventsDropped     prometheus.Counter
	HandshakeFailures prometheus.Counter
}

// NewWebSocketMetrics creates and registers realtime metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		EventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "events_delivered_total",
			Help:      "Total number of change events offered to connection channels.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "events_dropped_total",
			Help:      "Total number of change events dropped due to full channels.",
		}),
		HandshakeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "handshake_failures_total",
			Help:      "Total number of rejected WebSocket handshakes.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.EventsDelivered, m.EventsDropped, m.HandshakeFailures)
	return m
}
