package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/logger"
)

// Path returns the config file Load reads, or "" when none exists.
func Path() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// Watcher reloads a config file whenever it is written. Only the newest
// reload is kept until it is received.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changes chan *Config
	done    chan struct{}
	once    sync.Once
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file on save are picked up too.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fs,
		changes: make(chan *Config, 1),
		done:    make(chan struct{}),
		log:     logger.Named("config"),
	}
	go w.run()

	w.log.Info("watching config", zap.String("path", abs))
	return w, nil
}

// Changes delivers each successfully reloaded config.
func (w *Watcher) Changes() <-chan *Config { return w.changes }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || !e.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		// half-written files fail to parse; the next write retries
		w.log.Debug("config reload skipped", zap.Error(err))
		return
	}

	select {
	case <-w.changes:
	default:
	}
	w.changes <- cfg
	w.log.Info("config reloaded", zap.String("path", w.path))
}
