package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"assetgrip/internal/eventbus"
	"assetgrip/internal/logger"
)

// Watcher reloads the config file when it changes on disk and publishes a
// ConfigChangedEvent with the new values
type Watcher struct {
	watcher *fsnotify.Watcher
	svc     ConfigService
	bus     eventbus.EventBus
	path    string

	mu      sync.Mutex
	current *Config

	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching the file behind svc. The parent directory is
// watched so editors that replace the file are picked up.
func Watch(svc ConfigService, bus eventbus.EventBus) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path := filepath.Clean(svc.Path())
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		svc:     svc,
		bus:     bus,
		path:    path,
		done:    make(chan struct{}),
	}
	go w.loop()
	logger.Debug("watching config file", zap.String("path", path))
	return w, nil
}

// Current returns the last config successfully loaded by the watcher
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops the watcher
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Only care about Write and Create events for the config file
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.svc.LoadFromPath(w.path)
	if err != nil {
		// Half-written files fail to parse; the next write event retries.
		logger.Warn("ignoring unreadable config change", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	logger.Info("config reloaded", zap.String("path", w.path), zap.Int("pageSize", cfg.Browse.PageSize))
	if w.bus != nil {
		w.bus.Publish(eventbus.ConfigChangedEvent{Path: w.path, PageSize: cfg.Browse.PageSize})
	}
}
