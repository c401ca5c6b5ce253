package watcher

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher implements manifest watching using fsnotify. The manifest's parent
// directory is watched rather than the file itself, because editors replace
// files via rename and that would silently drop a direct watch.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	window    time.Duration

	manifest  string
	events    chan ports.WatchEvent
	batches   chan []string
	debouncer *Debouncer
	tracker   *contentTracker
}

// NewWatcher creates a watcher that coalesces events within the given quiet
// window.
func NewWatcher(window time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file system watcher")
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		window:    window,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		batches:   make(chan []string, eventChannelBuffer),
		tracker:   newContentTracker(),
	}, nil
}

// Start begins watching the manifest at the given path.
func (w *Watcher) Start(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve manifest path")
	}
	w.manifest = abs

	// Remember the current content so start-up does not read as a change.
	w.tracker.Prime(abs)

	w.debouncer = NewDebouncer(w.window, func(paths []string) {
		select {
		case w.batches <- paths:
		case <-ctx.Done():
		}
	})

	if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch manifest directory"),
			"path", filepath.Dir(abs))
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	if w.debouncer != nil {
		w.debouncer.Flush()
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of effective manifest changes.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// processEvents filters raw fsnotify events down to the manifest, feeds the
// debouncer, and emits effective changes. It is the only sender on the
// events channel.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.manifest {
				continue
			}
			if !relevantOp(event.Op) {
				continue
			}
			w.debouncer.Add(w.manifest)

		case paths := <-w.batches:
			for _, path := range paths {
				change, ok := w.tracker.Refresh(path)
				if !ok {
					continue
				}
				select {
				case w.events <- change:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}

// relevantOp reports whether the raw operation can change manifest content.
func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Remove) ||
		op.Has(fsnotify.Rename)
}
