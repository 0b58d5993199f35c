package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cadence/internal/core/clicker"
)

const debounceDelay = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// parsed document to the apply callback. Editors and the app's own
// atomic saves both replace the file, so the watcher listens on the
// directory and filters events down to the config's base name.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	apply     func(Config)
	logger    clicker.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

func NewWatcher(path string, apply func(Config), logger clicker.Logger) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		path:      path,
		apply:     apply,
		logger:    logger,
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}

// loop coalesces the burst of events a single save produces into one
// reload, delayed by debounceDelay.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case <-w.done:
			if pending != nil {
				pending.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(debounceDelay)
				pendingC = pending.C
			} else {
				if !pending.Stop() {
					select {
					case <-pending.C:
					default:
					}
				}
				pending.Reset(debounceDelay)
			}

		case <-pendingC:
			pending = nil
			pendingC = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watch error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload config", "path", w.path, "err", err)
		return
	}
	if cfg == nil {
		return
	}
	w.logger.Info("Config reloaded", "path", w.path)
	w.apply(*cfg)
}
