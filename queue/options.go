package queue

import (
	"log/slog"

	"github.com/c360/fsq/metric"
	"github.com/c360/fsq/pkg/retry"
	"github.com/c360/fsq/pkg/timestamp"
	"github.com/c360/fsq/storage"
	"github.com/c360/fsq/strategy"
)

// Option configures an Engine beyond its file-level configuration.
type Option func(*Engine)

// WithClock replaces the wall clock, typically with a mock in tests.
func WithClock(clock timestamp.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithFileSystem replaces the filesystem backend.
func WithFileSystem(fs storage.FileSystem) Option {
	return func(e *Engine) {
		if fs != nil {
			e.fs = fs
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics export through the given registry.
// If registry is nil, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.metrics = registry.CoreMetrics()
		}
	}
}

// WithNaming replaces the file naming strategy.
func WithNaming(naming strategy.Naming) Option {
	return func(e *Engine) {
		e.naming = naming
	}
}

// WithAppender replaces the append strategy.
func WithAppender(appender strategy.Appender) Option {
	return func(e *Engine) {
		if appender != nil {
			e.appender = appender
		}
	}
}

// WithFinalizePolicy replaces the finalization policy.
func WithFinalizePolicy(policy strategy.FinalizePolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.finalizePolicy = policy
		}
	}
}

// WithPurgePolicy replaces the purge policy.
func WithPurgePolicy(policy strategy.PurgePolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.purgePolicy = policy
		}
	}
}

// WithRetrySchedule replaces the delivery backoff schedule.
func WithRetrySchedule(schedule *retry.Schedule) Option {
	return func(e *Engine) {
		if schedule != nil {
			e.schedule = schedule
		}
	}
}

// WithErrorHook installs a callback invoked with durability failures the
// engine swallows, such as a failed finalize rename. The hook runs under
// the engine lock and must not call back into the engine.
func WithErrorHook(hook func(error)) Option {
	return func(e *Engine) {
		e.errorHook = hook
	}
}
