package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pingsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "liveness",
			Name:      "pings_sent_total",
			Help:      "Total PING broadcasts emitted.",
		},
		[]string{"node"},
	)
	pongsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "liveness",
			Name:      "pongs_sent_total",
			Help:      "Total PONG replies sent to peers.",
		},
		[]string{"node"},
	)
	pongsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "liveness",
			Name:      "pongs_suppressed_total",
			Help:      "Inbound PINGs left unanswered after pong budget exhaustion.",
		},
		[]string{"node"},
	)
	packetsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "transport",
			Name:      "packets_received_total",
			Help:      "Inbound datagrams by wire type.",
		},
		[]string{"node", "type"},
	)
	heartbeatsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "transport",
			Name:      "heartbeats_sent_total",
			Help:      "Transport-level auto-heartbeats sent.",
		},
		[]string{"node"},
	)
	connectedPeers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pulsectl",
			Subsystem: "transport",
			Name:      "connected_peers",
			Help:      "Currently connected peers.",
		},
		[]string{"node"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pulsectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			pingsSent,
			pongsSent,
			pongsSuppressed,
			packetsReceived,
			heartbeatsSent,
			connectedPeers,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordPingSent(node string) {
	RegisterMetrics()
	pingsSent.WithLabelValues(node).Inc()
}

func RecordPongSent(node string) {
	RegisterMetrics()
	pongsSent.WithLabelValues(node).Inc()
}

func RecordPongSuppressed(node string) {
	RegisterMetrics()
	pongsSuppressed.WithLabelValues(node).Inc()
}

func RecordPacketReceived(node, wireType string) {
	RegisterMetrics()
	packetsReceived.WithLabelValues(node, wireType).Inc()
}

func RecordHeartbeatSent(node string) {
	RegisterMetrics()
	heartbeatsSent.WithLabelValues(node).Inc()
}

func SetConnectedPeers(node string, n int) {
	RegisterMetrics()
	connectedPeers.WithLabelValues(node).Set(float64(n))
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
