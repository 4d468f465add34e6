package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	packetsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "radio",
			Name:      "packets_sent_total",
			Help:      "Control packets handed to the radio.",
		},
	)
	packetsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "radio",
			Name:      "packets_received_total",
			Help:      "Datagrams polled off the radio.",
		},
	)
	packetsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "radio",
			Name:      "packets_accepted_total",
			Help:      "Packets that passed whole-packet validation.",
		},
	)
	packetsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "radio",
			Name:      "packets_rejected_total",
			Help:      "Packets discarded by validation.",
		},
		[]string{"field"},
	)
	linkDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "link",
			Name:      "drops_total",
			Help:      "Transitions into the not-connected fallback.",
		},
	)
	linkReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "link",
			Name:      "reconnects_total",
			Help:      "Transitions back to a connected mode.",
		},
	)
	linkConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rclink",
			Subsystem: "link",
			Name:      "connected",
			Help:      "1 while the link is up, 0 while searching.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rclink",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Diagnostic HTTP requests served.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rclink",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Diagnostic HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			packetsSent, packetsReceived, packetsAccepted, packetsRejected,
			linkDrops, linkReconnects, linkConnected,
			httpRequests, httpDuration,
		)
	})
}

func RecordPacketSent() {
	RegisterMetrics()
	packetsSent.Inc()
}

func RecordPacketReceived() {
	RegisterMetrics()
	packetsReceived.Inc()
}

func RecordPacketAccepted() {
	RegisterMetrics()
	packetsAccepted.Inc()
}

func RecordPacketRejected(field string) {
	RegisterMetrics()
	packetsRejected.WithLabelValues(field).Inc()
}

func RecordLinkDrop() {
	RegisterMetrics()
	linkDrops.Inc()
	linkConnected.Set(0)
}

func RecordLinkReconnect() {
	RegisterMetrics()
	linkReconnects.Inc()
	linkConnected.Set(1)
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
