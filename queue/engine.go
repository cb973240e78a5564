package queue

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/c360/fsq/config"
	"github.com/c360/fsq/errors"
	"github.com/c360/fsq/metric"
	"github.com/c360/fsq/pkg/retry"
	"github.com/c360/fsq/pkg/timestamp"
	"github.com/c360/fsq/storage"
	"github.com/c360/fsq/strategy"
)

// Engine owns the queue state and strategies, exposes the public queue
// operations, and runs the background delivery worker.
type Engine struct {
	name      string
	dir       string
	detach    bool
	processor Processor

	fs             storage.FileSystem
	clock          timestamp.Clock
	logger         *slog.Logger
	metrics        *metric.Metrics
	naming         strategy.Naming
	appender       strategy.Appender
	finalizePolicy strategy.FinalizePolicy
	purgePolicy    strategy.PurgePolicy
	schedule       *retry.Schedule
	errorHook      func(error)

	mu   sync.Mutex
	cond *sync.Cond

	status          Status
	currentFile     storage.AppendFile
	currentPath     string
	statusReady     bool
	forceProcessing bool
	suspended       bool
	shuttingDown    bool
	workerState     WorkerState

	retryTimer *time.Timer
	workerDone chan struct{}
	joinOnce   sync.Once
}

// New validates cfg, builds the engine with its default strategies and any
// overrides, and starts the worker goroutine. The worker immediately scans
// the working directory; Status blocks until that scan completes.
func New(cfg config.Config, processor Processor, opts ...Option) (*Engine, error) {
	if processor == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("processor must not be nil"),
			"Engine", "New", "checking processor")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		name:      cfg.QueueName(),
		dir:       cfg.WorkingDirectory,
		detach:    cfg.DetachOnShutdown,
		processor: processor,

		fs:       storage.NewOSFileSystem(),
		clock:    timestamp.SystemClock{},
		logger:   slog.Default(),
		naming:   strategy.DefaultNaming(),
		appender: strategy.SeparatorAppender{Separator: cfg.SeparatorByte()},
		finalizePolicy: strategy.SimpleFinalizePolicy{
			RealtimeMaxBytes: cfg.Finalize.RealtimeMaxBytes,
			RealtimeMaxAgeMs: cfg.Finalize.RealtimeMaxAgeMs,
			BacklogMaxBytes:  cfg.Finalize.BacklogMaxBytes,
			BacklogMaxAgeMs:  cfg.Finalize.BacklogMaxAgeMs,
		},
		purgePolicy: strategy.SimplePurgePolicy{
			MaxTotalBytes: cfg.Purge.MaxTotalBytes,
			MaxFiles:      cfg.Purge.MaxFiles,
		},
		schedule: retry.NewSchedule(cfg.Retry.ToRetryConfig()),

		workerState: WorkerScanning,
		workerDone:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("queue", e.name)
	e.cond = sync.NewCond(&e.mu)

	go e.workerLoop()
	return e, nil
}

// WorkingDirectory returns the queue's working directory.
func (e *Engine) WorkingDirectory() string {
	return e.dir
}

// State returns the current worker state.
func (e *Engine) State() WorkerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workerState
}

// Push appends a message to the queue. Push holds the engine lock for the
// whole call, so concurrent calls never interleave within one message; the
// relative order of messages from different producers is not defined. After
// shutdown, Push
// rejects the message with ErrShuttingDown and has no effect.
func (e *Engine) Push(msg []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shuttingDown {
		return errors.ErrShuttingDown
	}

	now := e.clock.Now()

	// An aged-out current file rolls before this message is written, so
	// the message lands in a fresh file stamped with its own push time.
	if e.currentPath != "" && e.finalizePolicy.ShouldFinalize(e.status.stats(), now) {
		if err := e.finalizeCurrentLocked(); err != nil {
			return err
		}
	}

	if err := e.ensureCurrentLocked(now); err != nil {
		return err
	}

	if err := e.appender.Append(e.currentFile, msg); err != nil {
		// No accounting happened; the on-disk size is reconciled from
		// disk on the next startup if bytes were partially written.
		return errors.WrapTransient(err, "Engine", "Push", "appending message")
	}

	cost := e.appender.Cost(msg)
	e.status.CurrentSize += cost
	if e.metrics != nil {
		e.metrics.RecordAppend(e.name, cost)
	}

	if e.finalizePolicy.ShouldFinalize(e.status.stats(), now) {
		if err := e.finalizeCurrentLocked(); err != nil {
			// The append itself succeeded; the roll is retried on the
			// next push.
			e.logger.Error("finalize failed after append", "error", err)
			return nil
		}
	}
	return nil
}

// ForceProcessing wakes the worker and resumes delivery if it was suspended
// by an Unavailable verdict. If finalizeCurrent is true, or no finalized
// files are queued, any open current file is finalized first so its
// messages become deliverable. A no-op after shutdown.
func (e *Engine) ForceProcessing(finalizeCurrent bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shuttingDown {
		return
	}

	if finalizeCurrent || len(e.status.Finalized.Queue) == 0 {
		if e.currentPath != "" {
			if err := e.finalizeCurrentLocked(); err != nil {
				e.logger.Error("finalize failed during force processing", "error", err)
			}
		}
	}
	e.forceProcessing = true
	e.suspended = false
	e.cond.Broadcast()
}

// Status blocks until the startup scan has completed, then returns a
// snapshot of the queue accounting. It fails with ErrShuttingDown if
// shutdown wins the race.
func (e *Engine) Status() (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for !e.statusReady && !e.shuttingDown {
		e.cond.Wait()
	}
	if e.shuttingDown {
		return Status{}, errors.ErrShuttingDown
	}
	return e.status.clone(), nil
}

// RemoveAllFiles removes every file in the working directory whose name
// parses as a current or finalized file. Unrecognized names are left alone.
// In-memory accounting is not touched; this is a test/reset hammer, not a
// queue operation.
func (e *Engine) RemoveAllFiles() error {
	var names []string
	err := e.fs.ScanDir(e.dir, func(name string) {
		if _, ok := e.naming.Finalized.Parse(name); ok {
			names = append(names, name)
			return
		}
		if _, ok := e.naming.Current.Parse(name); ok {
			names = append(names, name)
		}
	})
	if err != nil {
		return errors.Wrap(err, "Engine", "RemoveAllFiles", "scanning working directory")
	}

	var errs []error
	for _, name := range names {
		if err := e.fs.Remove(e.fs.Join(e.dir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Shutdown stops the engine. The current file is closed without being
// finalized; the next startup reconciles it. The worker finishes any
// in-flight processor invocation and exits; Shutdown joins it unless the
// engine was configured to detach. Shutdown is idempotent.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if !e.shuttingDown {
		e.shuttingDown = true
		if e.retryTimer != nil {
			e.retryTimer.Stop()
			e.retryTimer = nil
		}
		if e.currentFile != nil {
			if err := e.currentFile.Close(); err != nil {
				e.logger.Error("closing current file on shutdown", "error", err)
			}
			e.currentFile = nil
		}
		e.cond.Broadcast()
	}
	e.mu.Unlock()

	e.joinOnce.Do(func() {
		if !e.detach {
			<-e.workerDone
		}
	})
}

// ensureCurrentLocked makes sure an open current file exists, creating one
// stamped with now if none does. A current path without an open handle
// (after a failed finalize rename or a restart adoption) is reopened for
// appending.
func (e *Engine) ensureCurrentLocked(now int64) error {
	if e.currentFile != nil {
		return nil
	}
	created := false
	if e.currentPath == "" {
		e.currentPath = e.fs.Join(e.dir, e.naming.Current.Generate(now))
		e.status.CurrentTimestamp = now
		e.status.CurrentSize = 0
		created = true
	}
	f, err := e.fs.OpenAppend(e.currentPath)
	if err != nil {
		if created {
			e.currentPath = ""
			e.status.CurrentTimestamp = 0
		}
		return errors.WrapTransient(err, "Engine", "Push", "opening current file")
	}
	e.currentFile = f
	return nil
}

// finalizeCurrentLocked closes the current file and atomically renames it
// to its finalized name. In-memory state is updated only after the rename
// succeeds; on rename failure the file remains current and the error is
// surfaced through the error hook.
func (e *Engine) finalizeCurrentLocked() error {
	if e.currentPath == "" {
		return nil
	}
	if e.currentFile != nil {
		if err := e.currentFile.Close(); err != nil {
			e.logger.Error("closing current file before finalize", "error", err)
		}
		e.currentFile = nil
	}

	name := e.naming.Finalized.Generate(e.status.CurrentTimestamp)
	dst := e.fs.Join(e.dir, name)
	if err := e.fs.Rename(e.currentPath, dst); err != nil {
		wrapped := errors.WrapFatal(
			fmt.Errorf("%w: %w", errors.ErrRenameFailed, err),
			"Engine", "finalize", "renaming current file")
		e.logger.Error("finalize rename failed, file stays current",
			"path", e.currentPath, "error", err)
		if e.errorHook != nil {
			e.errorHook(wrapped)
		}
		if e.metrics != nil {
			e.metrics.RecordError(e.name, "rename")
		}
		return wrapped
	}

	info := FileInfo{
		Name:      name,
		Path:      dst,
		Timestamp: e.status.CurrentTimestamp,
		Size:      e.status.CurrentSize,
	}
	e.status.Finalized.Queue = append(e.status.Finalized.Queue, info)
	e.status.Finalized.TotalSize += info.Size
	e.status.CurrentSize = 0
	e.status.CurrentTimestamp = 0
	e.currentPath = ""

	e.logger.Debug("finalized file", "name", name, "size", info.Size)
	if e.metrics != nil {
		e.metrics.RecordFinalize(e.name)
	}

	e.purgeLocked()
	e.recordQueueGaugesLocked()
	e.cond.Broadcast()
	return nil
}

// purgeLocked drops the oldest finalized files until the purge policy is
// satisfied. Files are evicted from the in-memory queue before their disk
// remove; a failed remove is logged and the eviction stands.
func (e *Engine) purgeLocked() {
	for e.purgePolicy.Overflow(e.status.stats()) && len(e.status.Finalized.Queue) > 0 {
		oldest := e.status.Finalized.Queue[0]
		e.status.Finalized.Queue = e.status.Finalized.Queue[1:]
		e.status.Finalized.TotalSize -= oldest.Size

		if err := e.fs.Remove(oldest.Path); err != nil {
			e.logger.Error("purge remove failed", "name", oldest.Name, "error", err)
			if e.metrics != nil {
				e.metrics.RecordError(e.name, "purge")
			}
		} else {
			e.logger.Info("purged oldest finalized file", "name", oldest.Name, "size", oldest.Size)
		}
		if e.metrics != nil {
			e.metrics.RecordPurge(e.name)
		}
	}
}

func (e *Engine) recordQueueGaugesLocked() {
	if e.metrics != nil {
		e.metrics.RecordQueueState(e.name, len(e.status.Finalized.Queue), e.status.Finalized.TotalSize)
	}
}

func (e *Engine) setWorkerStateLocked(state WorkerState) {
	e.workerState = state
	if e.metrics != nil {
		e.metrics.RecordWorkerState(e.name, int(state))
	}
}
