package storage

import "io"

// AppendFile is an open append-only file handle.
type AppendFile interface {
	io.Writer
	io.Closer
}

// FileSystem is the pluggable filesystem backend the queue core consumes.
//
// The queue relies on two properties of Rename: it is atomic within a single
// directory, and on success the source name no longer exists. Everything
// else is plain bookkeeping.
type FileSystem interface {
	// OpenAppend opens path for appending, creating it if absent.
	OpenAppend(path string) (AppendFile, error)

	// Rename atomically renames src to dst. Both must be in the same
	// directory.
	Rename(src, dst string) error

	// Remove deletes the file at path.
	Remove(path string) error

	// Size returns the size of the file at path in bytes.
	Size(path string) (uint64, error)

	// ScanDir calls visit once per entry name in dir (non-recursive,
	// base names only, no ordering guarantee).
	ScanDir(dir string, visit func(name string)) error

	// Join joins a directory and a file name into a path.
	Join(dir, name string) string
}
