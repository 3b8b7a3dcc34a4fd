// Package metrics exposes the dispatcher's operational counters as
// Prometheus collectors: a gauge for live connections, a gauge for
// broadcast queue depth, and a counter for messages handled per message
// type. None of this is part of the wire protocol; it exists purely for
// operational visibility, which the protocol's Non-goals do not exclude.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe for concurrent use; every method is a thin wrapper
// around a prometheus collector.
type Metrics struct {
	liveConnections prometheus.Gauge
	broadcastQueue  prometheus.Gauge
	messagesHandled *prometheus.CounterVec
	bytesDiscarded  prometheus.Counter
}

// New registers this Metrics' collectors with reg and returns it. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer) lets
// callers embed multiple independent dispatchers in one process, e.g. in
// tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		liveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vt6d",
			Name:      "live_connections",
			Help:      "Number of connections currently tracked by the dispatcher's connection pool.",
		}),
		broadcastQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vt6d",
			Name:      "broadcast_queue_depth",
			Help:      "Number of broadcast actions currently queued, awaiting drain.",
		}),
		messagesHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vt6d",
			Name:      "messages_handled_total",
			Help:      "Messages handled, labeled by message type.",
		}, []string{"message_type"}),
		bytesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vt6d",
			Name:      "bytes_discarded_total",
			Help:      "Bytes discarded from connections' receive buffers due to parse errors.",
		}),
	}
	reg.MustRegister(m.liveConnections, m.broadcastQueue, m.messagesHandled, m.bytesDiscarded)
	return m
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.liveConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.liveConnections.Dec()
}

func (m *Metrics) SetBroadcastQueueDepth(n int) {
	if m == nil {
		return
	}
	m.broadcastQueue.Set(float64(n))
}

func (m *Metrics) MessageHandled(messageType string) {
	if m == nil {
		return
	}
	m.messagesHandled.WithLabelValues(messageType).Inc()
}

func (m *Metrics) BytesDiscarded(n int) {
	if m == nil {
		return
	}
	m.bytesDiscarded.Add(float64(n))
}
