// Package queue implements a durable, filesystem-backed message queue.
//
// # Overview
//
// Messages pushed into the Engine are appended to a single open "current"
// file. A finalization policy decides, on size or age, when that file is
// rolled over: it is closed and atomically renamed into an immutable
// "finalized" file. A dedicated worker goroutine delivers finalized files,
// in strict FIFO order, to a user-supplied Processor — one file at a time,
// never concurrently. The queue survives process restarts: on startup the
// worker reconciles on-disk state before any delivery, and a purge policy
// bounds the on-disk footprint by dropping the oldest finalized files.
//
// # Delivery contract
//
// The Processor's verdict drives what happens to the head file:
//
//   - Success: the file is deleted and the next file is delivered.
//   - SuccessAndMoved: as Success, but the file is not deleted — the
//     processor has already moved or removed it.
//   - Unavailable: delivery is suspended until ForceProcessing is called.
//     The canonical case is an uploader losing connectivity.
//   - FailureNeedRetry: the file is kept and re-delivered after a backoff
//     delay from the retry schedule.
//
// A failed head blocks all successors: FIFO delivery is a contract, not an
// optimization.
//
// # Durability
//
// Finalization is a single same-directory rename, atomic on POSIX. The
// in-memory queue is updated only after the rename succeeds; on rename
// failure the file simply remains current and the next Push retries the
// roll. A failed delete after a successful delivery is logged and forgotten:
// the orphaned file is re-scanned and re-delivered on the next startup,
// which is the at-least-once semantics embedders must expect.
//
// # Concurrency
//
// Push holds the engine lock for the whole call, so concurrent producers
// never interleave within one message; the relative order of messages from
// different producers is not defined. All shared state is guarded by a single
// mutex with a single condition variable waking the worker on finalization,
// force-processing, purge, and shutdown.
package queue
