package watcher

import "context"

// SourceWatcher monitors model source files for changes with debouncing.
type SourceWatcher interface {
	// Start begins watching, calling callback with debounced, sorted file changes.
	// The callback runs on the watch goroutine; batches never overlap.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources. Safe to call more than once.
	Stop() error
}
