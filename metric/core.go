package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all core queue metrics (not processor-specific)
type Metrics struct {
	MessagesAppended *prometheus.CounterVec
	BytesAppended    *prometheus.CounterVec
	FilesFinalized   *prometheus.CounterVec
	FilesDelivered   *prometheus.CounterVec
	FilesPurged      *prometheus.CounterVec
	DeliveryDuration *prometheus.HistogramVec
	DeliveryRetries  *prometheus.CounterVec
	QueueDepth       *prometheus.GaugeVec
	QueueBytes       *prometheus.GaugeVec
	WorkerState      *prometheus.GaugeVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all core queue metrics
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesAppended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "messages",
				Name:      "appended_total",
				Help:      "Total number of messages appended to the current file",
			},
			[]string{"queue"},
		),

		BytesAppended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "messages",
				Name:      "appended_bytes_total",
				Help:      "Total number of bytes appended to the current file",
			},
			[]string{"queue"},
		),

		FilesFinalized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "files",
				Name:      "finalized_total",
				Help:      "Total number of files finalized",
			},
			[]string{"queue"},
		),

		FilesDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "files",
				Name:      "delivered_total",
				Help:      "Total number of delivery attempts by processor verdict",
			},
			[]string{"queue", "result"},
		),

		FilesPurged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "files",
				Name:      "purged_total",
				Help:      "Total number of finalized files dropped by the purge policy",
			},
			[]string{"queue"},
		),

		DeliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fsq",
				Subsystem: "delivery",
				Name:      "duration_seconds",
				Help:      "Processor invocation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"queue"},
		),

		DeliveryRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "delivery",
				Name:      "retries_total",
				Help:      "Total number of delivery retries scheduled",
			},
			[]string{"queue"},
		),

		QueueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fsq",
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Number of finalized files awaiting delivery",
			},
			[]string{"queue"},
		),

		QueueBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fsq",
				Subsystem: "queue",
				Name:      "bytes",
				Help:      "Total size of finalized files awaiting delivery",
			},
			[]string{"queue"},
		),

		WorkerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fsq",
				Subsystem: "worker",
				Name:      "state",
				Help:      "Worker state (0=scanning, 1=idle, 2=dispatching, 3=waiting_retry, 4=suspended, 5=terminated)",
			},
			[]string{"queue"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fsq",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors",
			},
			[]string{"queue", "type"},
		),
	}
}

// RecordAppend increments the message and byte counters for one append
func (c *Metrics) RecordAppend(queue string, bytes uint64) {
	c.MessagesAppended.WithLabelValues(queue).Inc()
	c.BytesAppended.WithLabelValues(queue).Add(float64(bytes))
}

// RecordFinalize increments the finalized file counter
func (c *Metrics) RecordFinalize(queue string) {
	c.FilesFinalized.WithLabelValues(queue).Inc()
}

// RecordDelivery records one processor invocation and its duration
func (c *Metrics) RecordDelivery(queue, result string, duration time.Duration) {
	c.FilesDelivered.WithLabelValues(queue, result).Inc()
	c.DeliveryDuration.WithLabelValues(queue).Observe(duration.Seconds())
}

// RecordRetry increments the retry counter
func (c *Metrics) RecordRetry(queue string) {
	c.DeliveryRetries.WithLabelValues(queue).Inc()
}

// RecordPurge increments the purged file counter
func (c *Metrics) RecordPurge(queue string) {
	c.FilesPurged.WithLabelValues(queue).Inc()
}

// RecordQueueState updates the depth and byte gauges
func (c *Metrics) RecordQueueState(queue string, depth int, bytes uint64) {
	c.QueueDepth.WithLabelValues(queue).Set(float64(depth))
	c.QueueBytes.WithLabelValues(queue).Set(float64(bytes))
}

// RecordWorkerState updates the worker state gauge
func (c *Metrics) RecordWorkerState(queue string, state int) {
	c.WorkerState.WithLabelValues(queue).Set(float64(state))
}

// RecordError increments the error counter
func (c *Metrics) RecordError(queue, errorType string) {
	c.ErrorsTotal.WithLabelValues(queue, errorType).Inc()
}
