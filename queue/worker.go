package queue

import (
	"sort"
	"time"

	"github.com/c360/fsq/pkg/timestamp"
	"github.com/c360/fsq/strategy"
)

// workerLoop is the background delivery goroutine. It reconciles on-disk
// state once, then loops: wait for work, dispatch the head file to the
// processor, apply the verdict.
func (e *Engine) workerLoop() {
	defer close(e.workerDone)

	e.mu.Lock()
	e.reconcileLocked(e.clock.Now())

	for {
		// Wait phase. The lock is held except inside cond.Wait.
		for {
			if e.shuttingDown {
				e.setWorkerStateLocked(WorkerTerminated)
				e.mu.Unlock()
				return
			}
			// The flag's work — clearing suspension — happened in
			// ForceProcessing; consuming it here just forces one more
			// pass over the conditions.
			e.forceProcessing = false

			if len(e.status.Finalized.Queue) > 0 && !e.suspended {
				now := e.clock.Now()
				if e.schedule.Ready(now) {
					break
				}
				e.setWorkerStateLocked(WorkerWaitingRetry)
				e.armRetryTimerLocked(now)
			} else if e.suspended {
				e.setWorkerStateLocked(WorkerSuspended)
			} else {
				e.setWorkerStateLocked(WorkerIdle)
			}
			e.cond.Wait()
		}

		// Dispatch phase. The head is copied, not popped: only this
		// goroutine pops, and only after the verdict.
		head := e.status.Finalized.Queue[0]
		e.setWorkerStateLocked(WorkerDispatching)
		e.mu.Unlock()

		started := time.Now()
		result := e.processor.OnFileReady(head, e.clock.Now())
		elapsed := time.Since(started)

		e.mu.Lock()
		e.applyVerdictLocked(head, result, elapsed)
	}
}

// reconcileLocked is the startup scan: seed the finalized queue from disk,
// repair leftover current files, bound the footprint, and latch statusReady.
func (e *Engine) reconcileLocked(now int64) {
	finalized := e.scanLocked(e.naming.Finalized)
	e.status.Finalized.Queue = finalized

	currents := e.scanLocked(e.naming.Current)

	// At most one current file survives: the most recent one, and only
	// when no live current was opened by a racing Push. Everything else
	// is finalized on the spot.
	keep := -1
	if e.currentPath == "" && len(currents) > 0 {
		keep = len(currents) - 1
	}
	for i, f := range currents {
		if i == keep || f.Path == e.currentPath {
			continue
		}
		name := e.naming.Finalized.Generate(f.Timestamp)
		dst := e.fs.Join(e.dir, name)
		if err := e.fs.Rename(f.Path, dst); err != nil {
			e.logger.Error("finalizing stale current file failed",
				"name", f.Name, "error", err)
			continue
		}
		e.status.Finalized.Queue = append(e.status.Finalized.Queue, FileInfo{
			Name:      name,
			Path:      dst,
			Timestamp: f.Timestamp,
			Size:      f.Size,
		})
		e.logger.Info("finalized stale current file", "name", name, "size", f.Size)
	}

	sort.Slice(e.status.Finalized.Queue, func(i, j int) bool {
		return e.status.Finalized.Queue[i].Less(e.status.Finalized.Queue[j])
	})
	var total uint64
	for _, f := range e.status.Finalized.Queue {
		total += f.Size
	}
	e.status.Finalized.TotalSize = total

	if keep >= 0 {
		newest := currents[keep]
		e.currentPath = newest.Path
		e.status.CurrentTimestamp = newest.Timestamp
		e.status.CurrentSize = newest.Size
		e.logger.Info("adopted current file", "name", newest.Name, "size", newest.Size)

		if e.finalizePolicy.ShouldFinalize(e.status.stats(), now) {
			if err := e.finalizeCurrentLocked(); err != nil {
				e.logger.Error("finalizing adopted current file failed", "error", err)
			}
		}
	}

	e.purgeLocked()
	e.recordQueueGaugesLocked()
	e.statusReady = true
	e.setWorkerStateLocked(WorkerIdle)
	e.cond.Broadcast()
}

// scanLocked collects all files in the working directory matching scheme,
// sorted by timestamp then name. Files whose size cannot be read are
// skipped.
func (e *Engine) scanLocked(scheme strategy.Scheme) []FileInfo {
	var files []FileInfo
	err := e.fs.ScanDir(e.dir, func(name string) {
		ts, ok := scheme.Parse(name)
		if !ok {
			return
		}
		path := e.fs.Join(e.dir, name)
		size, err := e.fs.Size(path)
		if err != nil {
			e.logger.Error("statting scanned file failed", "name", name, "error", err)
			return
		}
		files = append(files, FileInfo{Name: name, Path: path, Timestamp: ts, Size: size})
	})
	if err != nil {
		e.logger.Error("scanning working directory failed", "dir", e.dir, "error", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Less(files[j]) })
	return files
}

// applyVerdictLocked applies the processor's verdict to the head file. If
// the head was purged away while the dispatch was in flight, the verdict is
// discarded.
func (e *Engine) applyVerdictLocked(head FileInfo, result ProcessingResult, elapsed time.Duration) {
	now := e.clock.Now()
	if e.metrics != nil {
		e.metrics.RecordDelivery(e.name, result.String(), elapsed)
	}

	if len(e.status.Finalized.Queue) == 0 || e.status.Finalized.Queue[0] != head {
		e.logger.Warn("head purged during dispatch, verdict discarded", "name", head.Name)
		return
	}

	switch result {
	case Success, SuccessAndMoved:
		if result == Success {
			if err := e.fs.Remove(head.Path); err != nil {
				// The pop still happens: the orphan is re-scanned and
				// re-delivered on the next startup.
				e.logger.Error("remove after successful delivery failed",
					"name", head.Name, "error", err)
				if e.metrics != nil {
					e.metrics.RecordError(e.name, "remove")
				}
			}
		}
		e.status.Finalized.Queue = e.status.Finalized.Queue[1:]
		e.status.Finalized.TotalSize -= head.Size
		e.schedule.OnSuccess(now)
		e.logger.Debug("delivered file", "name", head.Name, "result", result.String())

	case Unavailable:
		e.suspended = true
		e.logger.Info("processor unavailable, delivery suspended", "name", head.Name)

	case FailureNeedRetry:
		next := e.schedule.OnFailure(now)
		e.logger.Warn("delivery failed, will retry",
			"name", head.Name, "next_attempt", timestamp.Format(next))
		if e.metrics != nil {
			e.metrics.RecordRetry(e.name)
		}
	}

	e.recordQueueGaugesLocked()
}

// armRetryTimerLocked schedules a condition broadcast for when the retry
// delay elapses. The condition variable stays the single wakeup point; the
// timer only pokes it.
func (e *Engine) armRetryTimerLocked(now int64) {
	delay := time.Duration(e.schedule.NextEligible()-now) * time.Millisecond
	if delay <= 0 {
		delay = time.Millisecond
	}
	if e.retryTimer != nil {
		e.retryTimer.Stop()
	}
	e.retryTimer = time.AfterFunc(delay, func() {
		e.mu.Lock()
		e.cond.Broadcast()
		e.mu.Unlock()
	})
}
