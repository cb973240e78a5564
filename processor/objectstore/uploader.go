// Package objectstore provides a queue processor that uploads finalized
// files to a NATS JetStream ObjectStore bucket.
//
// The uploader is the canonical "device uploader" processor: on connection
// loss it returns Unavailable so the queue suspends delivery until
// ForceProcessing signals that connectivity is back; any other upload
// failure returns FailureNeedRetry and the queue's backoff schedule paces
// the re-attempts.
package objectstore

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/fsq/metric"
	"github.com/c360/fsq/pkg/retry"
	"github.com/c360/fsq/queue"
)

// ObjectPutter is the slice of jetstream.ObjectStore the uploader needs.
// jetstream.ObjectStore satisfies it directly.
type ObjectPutter interface {
	PutBytes(ctx context.Context, name string, data []byte) (*jetstream.ObjectInfo, error)
}

// Uploader uploads finalized files to an object store bucket, keyed by the
// finalized file name.
type Uploader struct {
	store   ObjectPutter
	retry   retry.Config
	timeout time.Duration
	logger  *slog.Logger

	uploaded     prometheus.Counter
	uploadErrors prometheus.Counter
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithRetry replaces the per-delivery upload retry configuration. This is
// the inner, short-fused retry around one PutBytes call; the queue's own
// schedule paces re-deliveries.
func WithRetry(cfg retry.Config) Option {
	return func(u *Uploader) {
		u.retry = cfg
	}
}

// WithTimeout bounds one delivery attempt, including its inner retries.
func WithTimeout(timeout time.Duration) Option {
	return func(u *Uploader) {
		if timeout > 0 {
			u.timeout = timeout
		}
	}
}

// WithMetrics registers the uploader's counters with the given registry.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(u *Uploader) {
		if registry == nil {
			return
		}
		uploaded := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fsq",
			Subsystem: "uploader",
			Name:      "files_uploaded_total",
			Help:      "Total number of finalized files uploaded to the object store",
		})
		uploadErrors := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fsq",
			Subsystem: "uploader",
			Name:      "upload_errors_total",
			Help:      "Total number of failed upload deliveries",
		})
		if err := registry.RegisterCounter("uploader", "files_uploaded_total", uploaded); err == nil {
			u.uploaded = uploaded
		}
		if err := registry.RegisterCounter("uploader", "upload_errors_total", uploadErrors); err == nil {
			u.uploadErrors = uploadErrors
		}
	}
}

// New creates an uploader writing to store, typically a
// jetstream.ObjectStore obtained from jetstream.New(nc).ObjectStore(...).
func New(store ObjectPutter, opts ...Option) *Uploader {
	u := &Uploader{
		store:   store,
		retry:   retry.DefaultConfig(),
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// OnFileReady implements queue.Processor.
func (u *Uploader) OnFileReady(file queue.FileInfo, _ int64) queue.ProcessingResult {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		u.logger.Error("reading finalized file failed", "name", file.Name, "error", err)
		if u.uploadErrors != nil {
			u.uploadErrors.Inc()
		}
		return queue.FailureNeedRetry
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	err = retry.Do(ctx, u.retry, func() error {
		_, putErr := u.store.PutBytes(ctx, file.Name, data)
		if offline(putErr) {
			// No point hammering a dead connection; bail out of the
			// inner retry loop immediately.
			return retry.NonRetryable(putErr)
		}
		return putErr
	})
	if err != nil {
		if u.uploadErrors != nil {
			u.uploadErrors.Inc()
		}
		if offline(err) {
			u.logger.Warn("object store offline, suspending delivery",
				"name", file.Name, "error", err)
			return queue.Unavailable
		}
		u.logger.Error("upload failed", "name", file.Name, "error", err)
		return queue.FailureNeedRetry
	}

	if u.uploaded != nil {
		u.uploaded.Inc()
	}
	u.logger.Debug("uploaded finalized file", "name", file.Name, "size", file.Size)
	return queue.Success
}

// offline reports whether err indicates the NATS connection is gone, as
// opposed to a request that merely failed.
func offline(err error) bool {
	return err != nil &&
		(stderrors.Is(err, nats.ErrConnectionClosed) ||
			stderrors.Is(err, nats.ErrNoServers) ||
			stderrors.Is(err, nats.ErrConnectionReconnecting))
}
