package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces editor save bursts into one reload.
const debounceWindow = 250 * time.Millisecond

// Handler is called with the reloaded Options after the watched file
// changes, or with the load error.
type Handler func(opts Options, err error)

// Watcher reloads the configuration file when it changes on disk. It
// watches the parent directory so atomic rename-into-place saves are
// still observed.
type Watcher struct {
	path    string
	handler Handler

	fw *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	done    chan struct{}
	closed  bool
}

// Watch starts watching path and invokes handler on each change.
func Watch(path string, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		handler: handler,
		fw:      fw,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule arms the debounce timer, restarting it on rapid changes.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceWindow, func() {
		opts, err := Load(w.path)
		w.handler(opts, err)
	})
}
