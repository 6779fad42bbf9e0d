package observability

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "parsedump"

// Packet outcomes.
const (
	OutcomeRendered = "rendered"
	OutcomeDropped  = "dropped"
)

// Run outcomes.
const (
	RunOK         = "ok"
	RunInputError = "input_error"
	RunFailed     = "failed"
)

var (
	registerOnce sync.Once

	packets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "packets",
			Name:      "total",
			Help:      "Framed packets by direction, uTP class and outcome.",
		},
		[]string{"direction", "class", "outcome"},
	)
	payloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "packets",
			Name:      "payload_bytes",
			Help:      "Rendered packet length after header removal.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 8),
		},
		[]string{"class"},
	)
	decodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bsync",
			Name:      "decoded_total",
			Help:      "Decoded BSYNC messages by envelope and rendered format.",
		},
		[]string{"envelope", "format"},
	)
	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dump",
			Name:      "runs_total",
			Help:      "Completed capture conversions by outcome.",
		},
		[]string{"outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packets, payloadBytes, decodes, runs, httpRequests, httpDuration)
	})
}

// RecordPacket counts one framed packet. Length is only observed for
// rendered packets.
func RecordPacket(direction, class string, rendered bool, length int) {
	RegisterMetrics()
	if !rendered {
		packets.WithLabelValues(direction, class, OutcomeDropped).Inc()
		return
	}
	packets.WithLabelValues(direction, class, OutcomeRendered).Inc()
	payloadBytes.WithLabelValues(class).Observe(float64(length))
}

func RecordDecode(envelope, format string) {
	RegisterMetrics()
	decodes.WithLabelValues(envelope, format).Inc()
}

func RecordRun(outcome string) {
	RegisterMetrics()
	runs.WithLabelValues(outcome).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// WriteTextfile writes the default registry in the text exposition format,
// for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	RegisterMetrics()
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("observability: write metrics %s: %w", path, err)
	}
	return nil
}
