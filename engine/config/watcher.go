package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Watcher reloads the config file when it changes on disk and hands the
// parsed result to a callback. Invalid intermediate states (editors often
// truncate-then-write) are logged and skipped, keeping the last good
// config in effect.
type Watcher struct {
	path     string
	onReload func(*Config)

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
	mutex    sync.Mutex
}

func WatchFile(path string, onReload func(*Config)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		onReload: onReload,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}

	// Watch the directory, not the file: rename-and-replace editors drop
	// the watch on the file itself.
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				core.LogWarn("config reload skipped: %v", err)
				continue
			}
			core.LogInfo("config reloaded from %s", w.path)
			w.onReload(cfg)
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogWarn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return w.fsnotify.Close()
}
