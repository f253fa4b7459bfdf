// Package watcher emits debounced refresh notifications when the sandbox
// overlay directory changes on disk.
package watcher

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codefionn/sbxpanel/internal/logger"
)

const debounceInterval = 500 * time.Millisecond

// Watcher watches a set of directories and coalesces bursts of events
// into single notifications on C.
type Watcher struct {
	C chan struct{}

	fsw  *fsnotify.Watcher
	stop chan struct{}
	log  *logger.Logger
}

// New creates a watcher over the given directories. Directories that
// cannot be watched are skipped with a warning; the panel still works,
// it just refreshes on command completion only.
func New(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		C:    make(chan struct{}, 1),
		fsw:  fsw,
		stop: make(chan struct{}),
		log:  logger.Global().WithPrefix("watcher"),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.log.Warn("failed to watch %s: %v", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

// Add starts watching another directory. Unknown or unwatchable paths
// are logged and skipped.
func (w *Watcher) Add(dir string) {
	if dir == "" {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		w.log.Warn("failed to watch %s: %v", dir, err)
	}
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.log.Debug("event: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				timerC = timer.C
			} else {
				timer.Reset(debounceInterval)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.C <- struct{}{}:
			default:
			}
		case <-w.stop:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.fsw.Close()
}
