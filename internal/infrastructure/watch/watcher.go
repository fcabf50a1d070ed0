package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a deal file that was created or modified.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create" or "write"
}

// FSWatcher watches a directory tree and reports each changed deal file
// once per debounce window.
type FSWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *FileFilter
	onChange func(ChangeEvent)
}

// NewFSWatcher creates a new filesystem watcher. A nil filter uses
// DefaultFileFilter.
func NewFSWatcher(debounce time.Duration, filter *FileFilter, onChange func(ChangeEvent)) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if filter == nil {
		filter = DefaultFileFilter()
	}
	return &FSWatcher{
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onChange: onChange,
	}, nil
}

// WatchRecursive adds a directory and all its subdirectories to the watcher.
func (w *FSWatcher) WatchRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// The latest change type per path; written by this goroutine and read
	// by debouncer callbacks.
	kinds := newKindMap()
	debouncer := NewDebouncer(w.debounce, func(path string) {
		if w.onChange != nil {
			w.onChange(ChangeEvent{Path: path, ChangeType: kinds.take(path)})
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.WatchRecursive(event.Name)
					continue
				}
			}

			changeType := opToChangeType(event.Op)
			if changeType == "" || !w.filter.Matches(event.Name) {
				continue
			}
			kinds.set(event.Name, changeType)
			debouncer.Trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Removals and renames are not submitted.
func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}
