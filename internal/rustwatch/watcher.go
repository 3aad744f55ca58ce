// Package rustwatch polls a specific set of files for changes and
// invokes a callback when any are detected, driving cmd/ts2rs's
// watch subcommand. Adapted from tsgonest's internal/watcher, which
// polls whole directories by file extension; that shape doesn't fit
// here, since a ts2rs run only cares about the entry module and
// whatever it actually imports, not every .ts file in a source tree.
// A Watcher here is told the exact file set by its caller
// (hostquery.Host.LoadedModules, read right after a Resolve pass) and
// re-told via SetFiles after each run, since the import graph itself
// can change between runs.
package rustwatch

import (
	"os"
	"sync"
	"time"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove"
}

// DefaultPollInterval is the default polling interval for file change detection.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher watches an explicit set of files for changes using a
// polling approach.
type Watcher struct {
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func(events []Event)

	mu      sync.Mutex
	files   map[string]bool
	pending []Event
	timer   *time.Timer
	stopCh  chan struct{}
}

// New creates a watcher over files, triggering onChange (after
// debounce settles) whenever one of them is created, modified, or
// removed.
func New(files []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	w := &Watcher{
		debounce:     debounce,
		pollInterval: DefaultPollInterval,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
	}
	w.SetFiles(files)
	return w
}

// SetFiles replaces the set of files being watched. Safe to call
// while Watch is running — cmd/ts2rs's watch loop calls this after
// every rebuild, since the module graph a Resolve pass depends on can
// grow or shrink as imports are added or removed.
func (w *Watcher) SetFiles(files []string) {
	m := make(map[string]bool, len(files))
	for _, f := range files {
		m[f] = true
	}
	w.mu.Lock()
	w.files = m
	w.mu.Unlock()
}

// SetPollInterval overrides the default polling interval.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.pollInterval = d
}

// Watch starts polling for file changes. This is a blocking call that
// runs until Stop is called.
func (w *Watcher) Watch() error {
	snapshot := w.buildSnapshot()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			newSnapshot := w.buildSnapshot()
			events := w.diff(snapshot, newSnapshot)
			if len(events) > 0 {
				w.mu.Lock()
				w.pending = append(w.pending, events...)
				if w.timer != nil {
					w.timer.Stop()
				}
				w.timer = time.AfterFunc(w.debounce, func() {
					w.mu.Lock()
					pending := w.pending
					w.pending = nil
					w.mu.Unlock()
					if len(pending) > 0 {
						w.onChange(pending)
					}
				})
				w.mu.Unlock()
			}
			snapshot = newSnapshot
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

type fileInfo struct {
	modTime time.Time
	size    int64
}

// buildSnapshot stats exactly the watched file set — no directory
// walk — so a file dropped from the set (an import removed in a prior
// run) stops being watched, and one never stat'd before (an import
// just added) starts being watched, the next time SetFiles runs.
func (w *Watcher) buildSnapshot() map[string]fileInfo {
	w.mu.Lock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	w.mu.Unlock()

	snap := make(map[string]fileInfo, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snap[path] = fileInfo{modTime: info.ModTime(), size: info.Size()}
	}
	return snap
}

func (w *Watcher) diff(old, new map[string]fileInfo) []Event {
	var events []Event

	for path, newInfo := range new {
		if oldInfo, ok := old[path]; ok {
			if newInfo.modTime != oldInfo.modTime || newInfo.size != oldInfo.size {
				events = append(events, Event{Path: path, Op: "write"})
			}
		} else {
			events = append(events, Event{Path: path, Op: "create"})
		}
	}

	for path := range old {
		if _, ok := new[path]; !ok {
			events = append(events, Event{Path: path, Op: "remove"})
		}
	}

	return events
}
