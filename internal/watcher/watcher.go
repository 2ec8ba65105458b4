// Package watcher re-runs work when a single file changes on disk.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"croissant/internal/errors"
	"croissant/internal/slogutil"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// ChangeHandler is called with the debounced events for the watched file.
type ChangeHandler func(path string, events []Event)

// Config contains watcher configuration
type Config struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{DebounceMs: 200}
}

// Watcher watches one file. It subscribes to the file's directory so editors
// that replace the file by rename are still seen.
type Watcher struct {
	path      string
	config    Config
	logger    *slog.Logger
	handler   ChangeHandler
	fs        *fsnotify.Watcher
	debouncer *BatchDebouncer
}

// New creates a watcher for path. The file must exist.
func New(path string, config Config, logger *slog.Logger, handler ChangeHandler) (*Watcher, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if config.DebounceMs < 0 {
		return nil, errors.Newf(errors.ConfigInvalid, "negative debounce %dms", config.DebounceMs)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "resolving watch path", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "watch target", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, "creating file watcher", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, errors.Wrap(errors.InternalError, "watching "+filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		config:  config,
		logger:  logger.With("path", abs),
		handler: handler,
		fs:      fs,
	}
	w.debouncer = NewBatchDebouncer(time.Duration(config.DebounceMs)*time.Millisecond, w.emit)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers events until ctx is done or the watcher is closed. The handler
// never runs concurrently with itself. On return, events still waiting for
// their quiet period are discarded and a handler call in progress has
// finished. A Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching file", "debounce_ms", w.config.DebounceMs)
	defer w.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped watching")
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			typ, ok := eventType(ev.Op)
			if !ok {
				continue
			}
			w.logger.Debug("file event", "type", typ.String())
			w.debouncer.Add(Event{Type: typ, Path: w.path, Timestamp: time.Now()})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher, unblocks Run and waits for a
// handler call in progress. It must not be called from the handler.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fs.Close()
}

func (w *Watcher) emit(events []Event) {
	w.logger.Debug("change detected", "events", len(events))
	if w.handler != nil {
		w.handler(w.path, events)
	}
}

func eventType(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate, true
	case op.Has(fsnotify.Write):
		return EventModify, true
	case op.Has(fsnotify.Remove):
		return EventDelete, true
	case op.Has(fsnotify.Rename):
		return EventRename, true
	}
	return 0, false
}
