package ephemeris

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DataEvent describes a change to the precise data file.
type DataEvent int

const (
	DataAppeared DataEvent = iota // file created where none existed
	DataReplaced                  // file rewritten in place
	DataRemoved                   // file deleted
)

// Watcher monitors the precise data file path using fsnotify, so a
// long-running embedder can promote from the approximate strategy to the
// precise one (or drop back) without a restart.
type Watcher struct {
	Path   string
	Events <-chan DataEvent // read-only external channel

	events  chan DataEvent // internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the data file at path. The parent
// directory must exist; the file itself may not yet.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan DataEvent, 16)
	w := &Watcher{
		Path:    path,
		Events:  ch,
		events:  ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the data file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // wait for loop to exit
	close(w.events)
}

// emit delivers without blocking. When nothing drains the buffer the event
// is dropped, so Stop can always join the loop.
func (w *Watcher) emit(de DataEvent) {
	select {
	case w.events <- de:
	default:
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: a data-file rebuild arrives as a burst of writes; emit once
	// after the burst settles.
	const debounce = 200 * time.Millisecond
	var pending *DataEvent
	var pendingAt time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending != nil {
					w.emit(*pending)
				}
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.Path) {
				continue
			}

			var de DataEvent
			switch {
			case event.Has(fsnotify.Create):
				de = DataAppeared
			case event.Has(fsnotify.Write):
				de = DataReplaced
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				de = DataRemoved
			default:
				continue
			}
			// A fresh data file arrives as Create followed by a burst of
			// writes; the appearance outranks the writes it coalesces with.
			if pending != nil && *pending == DataAppeared && de == DataReplaced {
				de = DataAppeared
			}
			pending, pendingAt = &de, time.Now()

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if pending != nil && time.Since(pendingAt) >= debounce {
				w.emit(*pending)
				pending = nil
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the embedder keeps its current strategy.
		}
	}
}
