// Package watch implements poll-based detection of shader source edits.
package watch

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

type watchEntry struct {
	lastWrite time.Time
	callback  func()
}

// Watcher tracks the modification time of registered files and invokes
// the registered callback when a file's timestamp advances. It does not
// schedule itself; the owner calls CheckForChanges periodically.
type Watcher struct {
	mu      sync.Mutex
	watches map[string]*watchEntry
	enabled bool
	log     *slog.Logger
}

// NewWatcher creates an enabled watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watches: make(map[string]*watchEntry),
		enabled: true,
		log:     logger,
	}
}

// AddWatch registers a callback for a file. The current modification time
// is recorded as the baseline; if the file does not exist yet, the first
// appearance counts as a change.
func (w *Watcher) AddWatch(path string, callback func()) {
	entry := &watchEntry{callback: callback}
	if info, err := os.Stat(path); err == nil {
		entry.lastWrite = info.ModTime()
	}

	w.mu.Lock()
	w.watches[path] = entry
	w.mu.Unlock()

	w.log.Debug("watching shader file", "path", path)
}

// RemoveWatch unregisters a file.
func (w *Watcher) RemoveWatch(path string) {
	w.mu.Lock()
	delete(w.watches, path)
	w.mu.Unlock()
}

// SetEnabled toggles change detection. A disabled watcher keeps its
// registrations but CheckForChanges does nothing.
func (w *Watcher) SetEnabled(enabled bool) {
	w.mu.Lock()
	w.enabled = enabled
	w.mu.Unlock()
}

// CheckForChanges polls every tracked file once and invokes the callback
// of each file whose timestamp advanced, exactly once per detected change.
// The stored timestamp is updated before the callback runs, so a callback
// that itself touches the file does not retrigger within the same cycle.
// Callbacks run without the watcher lock held and may add or remove
// watches.
func (w *Watcher) CheckForChanges() {
	w.mu.Lock()

	if !w.enabled {
		w.mu.Unlock()
		return
	}

	var due []func()
	for path, entry := range w.watches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if mod := info.ModTime(); mod.After(entry.lastWrite) {
			entry.lastWrite = mod
			due = append(due, entry.callback)
			w.log.Debug("shader file changed", "path", path)
		}
	}

	w.mu.Unlock()

	for _, callback := range due {
		callback()
	}
}

// Len returns the number of tracked files.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.watches)
}
