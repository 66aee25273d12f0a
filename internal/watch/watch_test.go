package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/scylladb/go-set/strset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

func TestDebouncer_SingleEvent(t *testing.T) {
	var callCount atomic.Int32
	var lastPath atomic.Value

	d := NewDebouncer(50*time.Millisecond, func(path string, _ int) {
		callCount.Add(1)
		lastPath.Store(path)
	})
	defer d.Stop()

	d.Trigger("joined.tsrg")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, "joined.tsrg", lastPath.Load())
}

func TestDebouncer_MultipleEventsCoalesced(t *testing.T) {
	var callCount atomic.Int32
	var events atomic.Int32

	d := NewDebouncer(100*time.Millisecond, func(_ string, n int) {
		callCount.Add(1)
		events.Store(int32(n))
	})
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger("minecraft.jar")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, int32(10), events.Load())
}

func TestDebouncer_LastEventWins(t *testing.T) {
	var lastPath atomic.Value

	d := NewDebouncer(50*time.Millisecond, func(path string, _ int) {
		lastPath.Store(path)
	})
	defer d.Stop()

	d.Trigger("first.jar")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("second.jar")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("third.tsrg")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, "third.tsrg", lastPath.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var callCount atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func(string, int) {
		callCount.Add(1)
	})

	d.Trigger("a.jar")
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), callCount.Load())
}

func TestDebouncer_RecoversFromPanic(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, func(string, int) {
		panic("boom")
	})
	defer d.Stop()

	d.Trigger("a.jar")
	time.Sleep(50 * time.Millisecond)
}

func TestDebouncer_CallbacksNeverOverlap(t *testing.T) {
	var inFlight, maxInFlight, calls, events atomic.Int32

	d := NewDebouncer(20*time.Millisecond, func(_ string, n int) {
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}

		time.Sleep(200 * time.Millisecond)
		inFlight.Add(-1)
		calls.Add(1)
		events.Add(int32(n))
	})
	defer d.Stop()

	d.Trigger("client.jar")
	time.Sleep(60 * time.Millisecond)
	d.Trigger("client.jar")

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, int32(2), events.Load())
}

// ---------------------------------------------------------------------------
// isRelevant / addFiles
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	files := strset.New("/work/joined.tsrg")

	assert.True(t, isRelevant(fsnotify.Event{Name: "/work/joined.tsrg", Op: fsnotify.Write}, files))
	assert.True(t, isRelevant(fsnotify.Event{Name: "/work/joined.tsrg", Op: fsnotify.Create}, files))
	assert.True(t, isRelevant(fsnotify.Event{Name: "/work/joined.tsrg", Op: fsnotify.Rename}, files))
	assert.False(t, isRelevant(fsnotify.Event{Name: "/work/joined.tsrg", Op: fsnotify.Chmod}, files))
	assert.False(t, isRelevant(fsnotify.Event{Name: "/work/.joined.tsrg.swp", Op: fsnotify.Write}, files))
	assert.False(t, isRelevant(fsnotify.Event{Name: "/work/other.jar", Op: fsnotify.Write}, files))
}

func TestAddFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	files, err := addFiles(w, []string{
		filepath.Join(dir, "minecraft.jar"),
		filepath.Join(dir, "joined.tsrg"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, files.Size())
	assert.Equal(t, []string{dir}, w.WatchList())
}

func TestAddFiles_MissingDirectory(t *testing.T) {
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	_, err = addFiles(w, []string{filepath.Join(t.TempDir(), "nope", "mc.jar")})
	assert.ErrorContains(t, err, "watching directory")
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestRun_NoFiles(t *testing.T) {
	err := Run(context.Background(), Options{}, func(context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	assert.ErrorContains(t, err, "no files to watch")
}

func TestRun_InitialAndRerun(t *testing.T) {
	dir := t.TempDir()
	mappings := filepath.Join(dir, "joined.tsrg")
	require.NoError(t, os.WriteFile(mappings, []byte("a b\n"), 0o600))

	var runs atomic.Int32
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Files: []string{mappings}, Debounce: 20 * time.Millisecond, Out: out},
			func(context.Context) (*RunResult, error) {
				n := runs.Add(1)
				if n == 2 {
					return nil, errors.New("tool failed")
				}

				return &RunResult{OutputPath: "out.jar", Total: 4, Kept: 2}, nil
			})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "(initial) → OK")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(mappings, []byte("a b\nc d\n"), 0o600))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "→ ERROR")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Contains(t, out.String(), "watching 1 file(s)")
	assert.Contains(t, out.String(), "(initial) → OK (2/4 entries remapped")
	assert.Contains(t, out.String(), "joined.tsrg → ERROR: tool failed")
	assert.Contains(t, out.String(), "shutting down watcher")
}

func TestRun_SlowRunsAreSerialized(t *testing.T) {
	dir := t.TempDir()
	mappings := filepath.Join(dir, "joined.tsrg")
	require.NoError(t, os.WriteFile(mappings, []byte("a b\n"), 0o600))

	var runs, inFlight, maxInFlight atomic.Int32
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Files: []string{mappings}, Debounce: 20 * time.Millisecond, Out: out},
			func(context.Context) (*RunResult, error) {
				cur := inFlight.Add(1)
				defer inFlight.Add(-1)

				for {
					prev := maxInFlight.Load()
					if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
						break
					}
				}

				time.Sleep(200 * time.Millisecond)
				runs.Add(1)

				return &RunResult{OutputPath: "out.jar", Total: 4, Kept: 2}, nil
			})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(mappings, []byte("a b\nc d\n"), 0o600))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, os.WriteFile(mappings, []byte("a b\nc d\ne f\n"), 0o600))

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Equal(t, int32(1), maxInFlight.Load(), "remap runs must not overlap")
}
