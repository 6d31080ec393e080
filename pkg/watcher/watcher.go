// Package watcher provides a debounced file watcher. jenkdash uses it to
// pick up configuration edits while the dashboard is running, so changing
// the server URL or credentials does not require a restart.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor write bursts (truncate + write + rename)
// into a single change notification.
const DefaultDebounce = 250 * time.Millisecond

// ErrAlreadyStarted is returned by Start when the watcher is running.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher monitors a single file for changes. The containing directory is
// watched rather than the file itself so atomic replace-by-rename writes are
// observed.
type Watcher struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	started bool

	changeCh chan struct{}
	done     chan struct{}
}

// New creates a watcher for the given file path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		changeCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Changed returns a channel that receives after the file has changed and the
// debounce window has elapsed. The channel is never closed; callers select
// against their own shutdown signal.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.started = true
	go w.loop(fsw, w.done)
	return nil
}

// Stop stops watching. The change channel is intentionally left open: a
// goroutine blocked on Changed() is released at process exit, and closing
// here would race with the notify path.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	close(w.done)
	w.fsw.Close()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.fsw = nil
	w.started = false
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Base(w.path)

	for {
		select {
		case <-done:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.trigger()
			}

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next successful event still
			// produces a notification.
		}
	}
}

// trigger arms (or re-arms) the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

// notify delivers a single change signal without blocking.
func (w *Watcher) notify() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
