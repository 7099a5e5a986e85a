package theme

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events editors emit on save
const debounceDelay = 150 * time.Millisecond

// Watcher monitors theme config files and triggers refresh on changes
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	done     chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
	stopped  bool
}

// NewWatcher watches the given directories; missing ones are skipped.
// onChange runs after the palette has been refreshed and may be nil.
func NewWatcher(paths []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = fsw.Add(p)
		}
	}

	w := &Watcher{
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// NewDefaultWatcher watches the terminal config directories under $HOME.
func NewDefaultWatcher(onChange func()) (*Watcher, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return NewWatcher(nil, onChange)
	}
	return NewWatcher(WatchPaths(home), onChange)
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleRefresh()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(debounceDelay, func() {
		Refresh()
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop closes the watcher
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
}
