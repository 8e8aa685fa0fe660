package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// sourceWatcher implements SourceWatcher.
type sourceWatcher struct {
	watcher       *fsnotify.Watcher
	files         map[string]bool      // Exact source paths to report
	debounceTime  time.Duration        // Quiet period before firing callback
	callback      func(files []string) // Callback to invoke with changed files
	ctx           context.Context      // Context for lifecycle management
	cancel        context.CancelFunc   // Cancel function for internal context
	accumulated   map[string]bool      // Accumulated file changes
	accumulatedMu sync.Mutex           // Protects accumulated map
	debounceTimer *time.Timer          // Current debounce timer
	timerMu       sync.Mutex           // Protects debounce timer
	stopOnce      sync.Once            // Ensures Stop() is idempotent
	doneCh        chan struct{}        // Signals watch goroutine has finished
}

// NewSourceWatcher creates a watcher for the given source files.
// The parent directory of every file is watched so that editors replacing a
// file (write to temp, rename over) are still observed; the files themselves
// may be absent when watching starts. A zero debounce uses DefaultDebounce.
func NewSourceWatcher(files []string, debounce time.Duration) (SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	sw := &sourceWatcher{
		watcher:      watcher,
		files:        make(map[string]bool, len(files)),
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		clean := filepath.Clean(f)
		sw.files[clean] = true
		dirs[filepath.Dir(clean)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return sw, nil
}

// Start begins watching for file changes.
func (sw *sourceWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	sw.callback = callback
	sw.ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch()
	return nil
}

// Stop stops the watcher.
func (sw *sourceWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-sw.doneCh
		} else {
			close(sw.doneCh)
		}

		err = sw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (sw *sourceWatcher) watch() {
	defer close(sw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-sw.ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if !sw.shouldProcessEvent(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[filepath.Clean(event.Name)] = true
			sw.accumulatedMu.Unlock()

			sw.resetDebounceTimer(fireCh)

		case <-fireCh:
			sw.handleDebounceExpired()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Source watcher error: %v", err)
		}
	}
}

// handleDebounceExpired fires the callback with the accumulated files.
func (sw *sourceWatcher) handleDebounceExpired() {
	sw.accumulatedMu.Lock()
	if len(sw.accumulated) == 0 {
		sw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)
	sw.accumulatedMu.Unlock()

	sort.Strings(files)
	sw.callback(files)
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (sw *sourceWatcher) resetDebounceTimer(fireCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.debounceTimer = time.AfterFunc(sw.debounceTime, func() {
		// Non-blocking: a pending signal already covers this change
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (sw *sourceWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// shouldProcessEvent reports whether event concerns a watched source file.
func (sw *sourceWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return sw.files[filepath.Clean(event.Name)]
}
