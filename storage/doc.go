// Package storage provides the pluggable filesystem backend of the queue.
//
// # Overview
//
// The storage package defines the FileSystem interface the queue core
// consumes: open-for-append, atomic same-directory rename, remove, size,
// flat directory scan, and path joining. Two implementations ship with the
// module:
//
//   - OSFileSystem: the production backend over the os package
//   - MemFS: an in-memory backend for tests and crash simulations
//
// # Architecture Decisions
//
// Narrow Interface:
//
// The FileSystem interface intentionally carries only the primitives the
// engine's durability discipline needs. There is no read API: the engine
// never reads file contents, it only hands paths to a processor.
//
// Atomic Rename:
//
// Rename must be atomic within one directory. OSFileSystem inherits this
// from POSIX rename(2). Implementations on platforms without that guarantee
// must document the gap. MemFS is stricter than POSIX: it refuses to rename
// onto an existing name, which surfaces timestamp collisions in tests
// instead of silently overwriting.
//
// # Thread Safety
//
// All FileSystem implementations must be safe for concurrent use from
// multiple goroutines. Individual AppendFile handles are confined to one
// goroutine at a time by the engine.
//
// # Error Handling
//
// Implementations return errors classified by the module's errors package:
// ErrFileNotFound / ErrFileExists sentinels from MemFS, wrapped os errors
// from OSFileSystem.
package storage
