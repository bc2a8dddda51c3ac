// Package fs stores slots as flat files inside a private data directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/aurora/pkg/core"
)

var (
	_ core.Backend   = (*Backend)(nil)
	_ core.Watchable = (*Backend)(nil)
)

// Backend implements core.Backend on top of the filesystem. Each key maps
// to one file directly under Path.
type Backend struct {
	Path   string
	config Config

	mu            sync.RWMutex
	writes        int
	lastWrite     *time.Time
	watcherActive bool
}

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	FileMode  os.FileMode // defaults to 0600
	Logger    *slog.Logger
}

// NewBackend creates a new filesystem-backed storage port.
func NewBackend(config Config) *Backend {
	if config.FileMode == 0 {
		config.FileMode = 0o600
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the data directory exists. With MustExist the
// directory is never created.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist || b.config.ReadOnly {
		info, err := os.Stat(b.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", b.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", b.Path)
		}
		return nil
	}

	if err := os.MkdirAll(b.Path, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Read returns the content of the file named key.
func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := b.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the file named key atomically.
func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := b.resolve(key)
	if err != nil {
		return err
	}

	if err := replaceFile(path, data, b.config.FileMode); err != nil {
		return err
	}

	now := time.Now()
	b.mu.Lock()
	b.writes++
	b.lastWrite = &now
	b.mu.Unlock()

	b.config.Logger.Debug("slot file written", "key", key, "bytes", len(data))
	return nil
}

// Close is a no-op; watchers stop with their context.
func (b *Backend) Close() error { return nil }

// resolve maps a key to a path, refusing anything that would escape Path.
func (b *Backend) resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.Path, key), nil
}
