package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("url: old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w, path
}

func waitForChange(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	w, path := newTestWatcher(t)

	if err := os.WriteFile(path, []byte("url: new\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitForChange(t, w)
}

func TestWatcher_NotifiesOnAtomicReplace(t *testing.T) {
	w, path := newTestWatcher(t)

	// Editors typically write a temp file and rename it over the target.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("url: new\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	waitForChange(t, w)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	w, path := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("url: new\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	waitForChange(t, w)

	// The burst collapses into one notification.
	select {
	case <-w.Changed():
		t.Error("expected a single debounced notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	w, path := newTestWatcher(t)

	sibling := filepath.Join(filepath.Dir(path), "other.yaml")
	if err := os.WriteFile(sibling, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
		t.Error("sibling file change should not notify")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	w, _ := newTestWatcher(t)
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)
	w.Stop()
	w.Stop()
}
