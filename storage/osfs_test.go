package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_AppendLifecycle(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()
	path := fs.Join(dir, "current-00000000000000001001.bin")

	f, err := fs.OpenAppend(path)
	require.NoError(t, err)
	_, err = f.Write([]byte("foo\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Reopening appends rather than truncating.
	f, err = fs.OpenAppend(path)
	require.NoError(t, err)
	_, err = f.Write([]byte("bar\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\n", string(data))

	size, err := fs.Size(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), size)
}

func TestOSFileSystem_Rename(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()
	src := fs.Join(dir, "current-00000000000000001001.bin")
	dst := fs.Join(dir, "finalized-00000000000000001001.bin")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, fs.Rename(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestOSFileSystem_RenameMissingSource(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()

	err := fs.Rename(fs.Join(dir, "missing"), fs.Join(dir, "dst"))
	assert.Error(t, err)
}

func TestOSFileSystem_Remove(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()
	path := fs.Join(dir, "f")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, fs.Remove(path))
	assert.Error(t, fs.Remove(path))
}

func TestOSFileSystem_ScanDirSkipsSubdirs(t *testing.T) {
	fs := NewOSFileSystem()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("1"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	seen := map[string]bool{}
	require.NoError(t, fs.ScanDir(dir, func(name string) {
		seen[name] = true
	}))
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

func TestOSFileSystem_ScanDirMissing(t *testing.T) {
	fs := NewOSFileSystem()
	err := fs.ScanDir(filepath.Join(t.TempDir(), "nope"), func(string) {})
	assert.Error(t, err)
}
