// Package watch reports changes to a single dataset file.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written, created or replaced
	ChangeRemoved                    // File no longer exists
)

// String returns a lowercase name for the kind.
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one debounced change to the watched file.
type Change struct {
	Kind ChangeKind
	Path string
}

// Watcher monitors one file. It watches the parent directory so that
// editors that save by renaming a temp file over the original are seen.
//
// Changes is buffered with capacity one; bursts arriving while a change is
// still unread are coalesced into it.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. Events are reported once no new
// event for the file arrived for debounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		return nil, errors.New("watch: debounce must be positive")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	ch := make(chan Change, 1)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start begins watching. When it fails the underlying watcher is already
// released; Stop remains safe to call.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.done)
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.Path), err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending bool
		last    time.Time
	)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				w.emit()
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) emit() {
	kind := ChangeModified
	if _, err := os.Stat(w.Path); errors.Is(err, os.ErrNotExist) {
		kind = ChangeRemoved
	}
	select {
	case w.changes <- Change{Kind: kind, Path: w.Path}:
	default:
	}
}
