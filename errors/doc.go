// Package errors provides standardized error handling patterns for the queue.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// The queue core maps its failure modes onto these classes: a failed delete
// after a successful delivery is Transient (the orphaned file is re-scanned
// on the next startup), a failed finalize rename is Fatal for that operation
// (in-memory state is left untouched and the file remains current), and an
// operation attempted after shutdown yields ErrShuttingDown.
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if shuttingDown {
//	    return errors.ErrShuttingDown
//	}
//
// Wrap errors with context for debugging:
//
//	if err := fs.Remove(path); err != nil {
//	    return errors.WrapTransient(err, "Engine", "purge", "removing oldest file")
//	}
//
// Check classification for handling decisions:
//
//	if errors.IsTransient(err) {
//	    // log and continue, state is still consistent
//	}
package errors
