package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file when it changes on disk and hands
// the freshly validated result to a callback. Only hot-reloadable settings
// should be acted on by the callback (the agent applies the log level);
// cache policy changes require a restart.
type Watcher struct {
	path     string
	onChange func(*Config)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	done     chan struct{}
}

// Watch starts watching the configuration file at path. The callback runs
// on the watcher goroutine for every successful reload; reload failures are
// logged and the previous configuration stays in effect.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory, not the file: editors and configmap updates
	// replace the file, which drops a watch registered on the file itself.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fsWatcher,
		logger:   slog.Default().With("component", "config.watcher"),
		done:     make(chan struct{}),
	}
	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadConfigWithEnvOverrides(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous configuration", "error", err)
				continue
			}

			w.logger.Info("configuration reloaded", "path", w.path)
			w.onChange(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
