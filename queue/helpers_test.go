package queue

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/c360/fsq/config"
	"github.com/c360/fsq/storage"
)

// mockClock is a settable clock shared between the test and the engine.
type mockClock struct {
	mu sync.Mutex
	ms int64
}

func newMockClock(ms int64) *mockClock {
	return &mockClock{ms: ms}
}

func (c *mockClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

func (c *mockClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms = ms
}

// delivery records one processor invocation, with the file contents read
// before the engine gets a chance to delete the file.
type delivery struct {
	file     FileInfo
	now      int64
	contents string
}

// collectProcessor records deliveries and returns verdicts from a
// configurable function. Every call is also signalled on calls.
type collectProcessor struct {
	mu      sync.Mutex
	fs      *storage.MemFS
	history []delivery
	verdict func(n int, file FileInfo) ProcessingResult
	calls   chan delivery
}

func newCollectProcessor(fs *storage.MemFS) *collectProcessor {
	return &collectProcessor{
		fs:      fs,
		verdict: func(int, FileInfo) ProcessingResult { return Success },
		calls:   make(chan delivery, 64),
	}
}

func (p *collectProcessor) OnFileReady(file FileInfo, now int64) ProcessingResult {
	var contents string
	if data, ok := p.fs.Contents(file.Path); ok {
		contents = string(data)
	}
	d := delivery{file: file, now: now, contents: contents}

	p.mu.Lock()
	p.history = append(p.history, d)
	n := len(p.history)
	verdict := p.verdict
	p.mu.Unlock()

	p.calls <- d
	return verdict(n, file)
}

func (p *collectProcessor) setVerdict(fn func(n int, file FileInfo) ProcessingResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verdict = fn
}

func (p *collectProcessor) deliveries() []delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]delivery(nil), p.history...)
}

func (p *collectProcessor) waitCall(t *testing.T) delivery {
	t.Helper()
	select {
	case d := <-p.calls:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a processor call")
		return delivery{}
	}
}

func (p *collectProcessor) expectNoCall(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case d := <-p.calls:
		t.Fatalf("unexpected processor call for %s", d.file.Name)
	case <-time.After(wait):
	}
}

// failingFS wraps MemFS with injectable rename failures.
type failingFS struct {
	*storage.MemFS
	failMu     sync.Mutex
	failRename bool
}

func (f *failingFS) setFailRename(v bool) {
	f.failMu.Lock()
	defer f.failMu.Unlock()
	f.failRename = v
}

func (f *failingFS) Rename(src, dst string) error {
	f.failMu.Lock()
	fail := f.failRename
	f.failMu.Unlock()
	if fail {
		return stderrors.New("injected rename failure")
	}
	return f.MemFS.Rename(src, dst)
}

// testConfig returns a config whose thresholds keep every policy out of the
// way unless a test lowers them.
func testConfig(dir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.WorkingDirectory = dir
	cfg.Finalize.RealtimeMaxBytes = 1 << 30
	cfg.Finalize.RealtimeMaxAgeMs = 1 << 40
	cfg.Finalize.BacklogMaxBytes = 1 << 30
	cfg.Finalize.BacklogMaxAgeMs = 1 << 40
	cfg.Retry.InitialDelayMs = 10
	cfg.Retry.MaxDelayMs = 1000
	cfg.Retry.Jitter = false
	return cfg
}

// waitState polls until the worker reaches the wanted state.
func waitState(t *testing.T, e *Engine, want WorkerState) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if e.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("worker never reached state %s (currently %s)", want, e.State())
}

// waitStatus polls Status until pred accepts the snapshot.
func waitStatus(t *testing.T, e *Engine, pred func(Status) bool) Status {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, err := e.Status()
		require.NoError(t, err)
		if pred(st) {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("status never matched predicate")
	return Status{}
}

// checkInvariants asserts the cross-operation invariants on a status
// snapshot and the backing filesystem.
func checkInvariants(t *testing.T, e *Engine, fs *storage.MemFS) {
	t.Helper()
	st, err := e.Status()
	require.NoError(t, err)

	var total uint64
	for i, f := range st.Finalized.Queue {
		total += f.Size

		ts, ok := e.naming.Finalized.Parse(f.Name)
		require.True(t, ok, "finalized name %q must parse", f.Name)
		require.Equal(t, f.Timestamp, ts)

		if i > 0 {
			prev := st.Finalized.Queue[i-1]
			require.False(t, f.Less(prev), "finalized queue must be sorted")
		}
	}
	require.Equal(t, total, st.Finalized.TotalSize)

	currents := 0
	require.NoError(t, fs.ScanDir(e.WorkingDirectory(), func(name string) {
		if _, ok := e.naming.Current.Parse(name); ok {
			currents++
		}
	}))
	require.LessOrEqual(t, currents, 1, "at most one current file on disk")
}
