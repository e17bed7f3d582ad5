package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	registry = prometheus.NewRegistry()

	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contourwire",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Codec operations by direction and outcome.",
		},
		[]string{"op", "success"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contourwire",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Wire bytes produced or consumed by the codec.",
		},
		[]string{"op"},
	)
	codecContours = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contourwire",
			Subsystem: "codec",
			Name:      "contours_total",
			Help:      "Contours carried by successfully processed messages.",
		},
		[]string{"op"},
	)
	codecDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contourwire",
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Codec operation duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"op"},
	)
)

// Registry holds only this module's collectors, so exported files are not
// mixed with Go runtime metrics.
func Registry() *prometheus.Registry {
	RegisterMetrics()
	return registry
}

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(codecOps, codecBytes, codecContours, codecDuration)
	})
}

// CodecOp is one measured encode or decode call.
type CodecOp struct {
	Op       string
	Bytes    int
	Contours int
	Duration time.Duration
	Err      error
}

func RecordCodec(op CodecOp) {
	RegisterMetrics()
	success := "true"
	if op.Err != nil {
		success = "false"
	}
	codecOps.WithLabelValues(op.Op, success).Inc()
	codecDuration.WithLabelValues(op.Op).Observe(op.Duration.Seconds())
	if op.Err != nil {
		return
	}
	codecBytes.WithLabelValues(op.Op).Add(float64(op.Bytes))
	codecContours.WithLabelValues(op.Op).Add(float64(op.Contours))
}

// WriteTextfile writes every metric in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry())
}
