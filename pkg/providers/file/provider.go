// Package file implements a secret provider backed by a local directory,
// one file per secret. This is the layout used by most container secret
// mounts (Kubernetes secret volumes, Docker secrets).
//
// The provider watches the directory with fsnotify and logs rotations as
// they land on disk; the cache itself picks up new contents on its next
// refresh or re-fetch, so the watcher is observational only.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
)

// Provider serves secrets from files in a directory. The secret key is the
// file name relative to the directory; keys containing path traversal are
// rejected.
type Provider struct {
	name   string
	dir    string
	logger *slog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a file provider rooted at cfg.Dir and starts the directory
// watcher.
func New(cfg providers.Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("file provider requires a directory")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("secret directory %q: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secret path %q is not a directory", cfg.Dir)
	}

	name := cfg.Name
	if name == "" {
		name = providers.TypeFile
	}

	p := &Provider{
		name:   name,
		dir:    cfg.Dir,
		logger: slog.Default().With("component", "providers.file", "provider", name),
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", cfg.Dir, err)
	}
	p.watcher = watcher

	go p.watch()

	return p, nil
}

// Retrieve reads the file named by key, with trailing whitespace trimmed.
func (p *Provider) Retrieve(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}

	path, err := p.resolve(key)
	if err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// resolve maps a key to a path inside the secret directory and rejects
// traversal outside it.
func (p *Provider) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	path := filepath.Join(p.dir, filepath.Clean(key))
	rel, err := filepath.Rel(p.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes secret directory", key)
	}
	return path, nil
}

// watch logs secret file rotations until the provider is closed.
func (p *Provider) watch() {
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				p.logger.Debug("secret file changed",
					"file", filepath.Base(event.Name),
					"op", event.Op.String(),
				)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("secret directory watch error", "error", err)
		}
	}
}

// Name returns the provider's configured instance name.
func (p *Provider) Name() string { return p.name }

// Type returns the provider variant.
func (p *Provider) Type() string { return providers.TypeFile }

// HealthCheck verifies the secret directory is still readable.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(p.dir); err != nil {
		return fmt.Errorf("secret directory unavailable: %w", err)
	}
	return nil
}

// Close stops the directory watcher.
func (p *Provider) Close() error {
	close(p.done)
	return p.watcher.Close()
}
