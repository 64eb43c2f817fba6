package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// collector records callback invocations.
type collector struct {
	mu    sync.Mutex
	files []string
}

func (c *collector) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, path)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.files...)
}

func (c *collector) waitFor(t *testing.T, n int, timeout time.Duration) []string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d callbacks, got %v", n, c.snapshot())
	return nil
}

func TestWatcherPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	var c collector
	w := New([]string{dir}, []string{"txt"}, c.add, nil, WithDebounce(30*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := c.waitFor(t, 1, 2*time.Second)
	if got[0] != path {
		t.Errorf("got %q, want %q", got[0], path)
	}
}

func TestWatcherFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	var c collector
	w := New([]string{dir}, []string{"pdf", "txt"}, c.add, nil, WithDebounce(30*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "skip.exe"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := c.waitFor(t, 1, 2*time.Second)
	for _, p := range got {
		if p != keep {
			t.Errorf("unexpected callback for %q", p)
		}
	}
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	var removed collector
	w := New([]string{dir}, []string{"txt"}, nil, removed.add, WithDebounce(30*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	got := removed.waitFor(t, 1, 2*time.Second)
	if got[0] != path {
		t.Errorf("got %q, want %q", got[0], path)
	}
}

func TestWatcherCreatesMissingDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drop")
	w := New([]string{dir}, nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("drop directory not created: %v", err)
	}
}

func TestSyncExisting(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.pdf")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var c collector
	w := New([]string{dir}, []string{"txt"}, c.add, nil)
	w.SyncExisting()

	got := c.snapshot()
	if len(got) != 1 || got[0] != a {
		t.Errorf("SyncExisting() callbacks = %v, want just %q", got, a)
	}
}

func TestStopIdempotent(t *testing.T) {
	w := New([]string{t.TempDir()}, nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestStopWhileEventsInFlight(t *testing.T) {
	// Stop must not invalidate the fsnotify handle while the event loop
	// is still draining it.
	for i := 0; i < 20; i++ {
		dir := t.TempDir()
		var c collector
		w := New([]string{dir}, []string{"txt"}, c.add, nil, WithDebounce(5*time.Millisecond))
		if err := w.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 5; j++ {
				path := filepath.Join(dir, "doc.txt")
				_ = os.WriteFile(path, []byte("content"), 0o644)
			}
		}()
		w.Stop()
		<-done
	}
}
