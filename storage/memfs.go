package storage

import (
	"path"
	"sort"
	"sync"

	"github.com/c360/fsq/errors"
)

// MemFS is an in-memory FileSystem. It backs unit tests and crash
// simulations: contents survive engine restarts as long as the MemFS value
// is shared, and nothing touches the disk.
//
// MemFS is deliberately stricter than POSIX in one spot: Rename fails with
// ErrFileExists when the destination already exists, so a timestamp
// collision shows up as an error instead of silent data loss.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

type memFile struct {
	fs   *MemFS
	path string
}

func (f *memFile) Write(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if _, ok := f.fs.files[f.path]; !ok {
		return 0, errors.ErrFileNotFound
	}
	f.fs.files[f.path] = append(f.fs.files[f.path], p...)
	return len(p), nil
}

func (f *memFile) Close() error {
	return nil
}

// OpenAppend implements FileSystem.
func (m *MemFS) OpenAppend(p string) (AppendFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		m.files[p] = []byte{}
	}
	return &memFile{fs: m, path: p}, nil
}

// Rename implements FileSystem.
func (m *MemFS) Rename(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[src]
	if !ok {
		return errors.ErrFileNotFound
	}
	if _, ok := m.files[dst]; ok {
		return errors.ErrFileExists
	}
	m.files[dst] = data
	delete(m.files, src)
	return nil
}

// Remove implements FileSystem.
func (m *MemFS) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		return errors.ErrFileNotFound
	}
	delete(m.files, p)
	return nil
}

// Size implements FileSystem.
func (m *MemFS) Size(p string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return 0, errors.ErrFileNotFound
	}
	return uint64(len(data)), nil
}

// ScanDir implements FileSystem. Names are visited in sorted order for
// deterministic tests; the engine does not rely on it.
func (m *MemFS) ScanDir(dir string, visit func(name string)) error {
	m.mu.Lock()
	names := make([]string, 0, len(m.files))
	for p := range m.files {
		if path.Dir(p) == path.Clean(dir) {
			names = append(names, path.Base(p))
		}
	}
	m.mu.Unlock()

	sort.Strings(names)
	for _, name := range names {
		visit(name)
	}
	return nil
}

// Join implements FileSystem.
func (m *MemFS) Join(dir, name string) string {
	return path.Join(dir, name)
}

// Contents returns a copy of the file at p. Test helper.
func (m *MemFS) Contents(p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// WriteFile replaces the file at p wholesale. Test helper for seeding
// pre-existing state.
func (m *MemFS) WriteFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = append([]byte(nil), data...)
}

// NumFiles returns the number of files currently stored.
func (m *MemFS) NumFiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
