package fragment

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// Watcher watches a pattern directory and reloads changed pattern
// files into a library. Reloads are debounced because editors often
// emit several write events per save.
type Watcher struct {
	dir            string
	library        *Library
	watcher        *fsnotify.Watcher
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	onReload       func()
}

// NewWatcher creates a watcher for the given pattern directory
func NewWatcher(dir string, library *Library) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to watch pattern dir %s", dir)
	}

	return &Watcher{
		dir:            dir,
		library:        library,
		watcher:        fsWatcher,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// SetOnReload registers a callback invoked after each successful
// pattern reload. Must be called before Start.
func (w *Watcher) SetOnReload(fn func()) {
	w.onReload = fn
}

// Start begins watching for pattern file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if !isPatternFile(event.Name) {
					continue
				}
				logger.Infow("Pattern watcher detected change",
					"symbol", sym.Fragment,
					"file", event.Name,
					"op", event.Op.String(),
				)
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Pattern watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid file changes and triggers a reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if _, err := w.library.LoadPatternDir(w.dir); err != nil {
			logger.Errorw("Pattern reload failed",
				"symbol", sym.Fragment,
				"dir", w.dir,
				"error", err,
			)
			return
		}
		if w.onReload != nil {
			w.onReload()
		}
	})
}
