package storage

import (
	"os"
	"path/filepath"

	"github.com/c360/fsq/errors"
)

// OSFileSystem implements FileSystem over the local filesystem. Rename
// atomicity is the platform's: POSIX guarantees same-directory rename is
// atomic; on other platforms the guarantee is os.Rename's.
type OSFileSystem struct{}

// NewOSFileSystem returns the production filesystem backend.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// OpenAppend implements FileSystem.
func (OSFileSystem) OpenAppend(path string) (AppendFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "OSFileSystem", "OpenAppend", "opening file")
	}
	return f, nil
}

// Rename implements FileSystem.
func (OSFileSystem) Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrap(err, "OSFileSystem", "Rename", "renaming file")
	}
	return nil
}

// Remove implements FileSystem.
func (OSFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Wrap(err, "OSFileSystem", "Remove", "removing file")
	}
	return nil
}

// Size implements FileSystem.
func (OSFileSystem) Size(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "OSFileSystem", "Size", "statting file")
	}
	return uint64(info.Size()), nil
}

// ScanDir implements FileSystem. Subdirectories are skipped; the queue
// working directory is flat.
func (OSFileSystem) ScanDir(dir string, visit func(name string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "OSFileSystem", "ScanDir", "reading directory")
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		visit(entry.Name())
	}
	return nil
}

// Join implements FileSystem.
func (OSFileSystem) Join(dir, name string) string {
	return filepath.Join(dir, name)
}
