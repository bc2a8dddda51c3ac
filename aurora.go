package aurora

import (
	"context"
	_ "embed"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/aurora/internal/platform"
	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/snapshot"
	"github.com/aretw0/aurora/pkg/store"
)

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string

// --- Types ---

// Store is the data store handle.
type Store = store.Store

// Snapshot is a read-only view for widgets.
type Snapshot = snapshot.Snapshot

// --- Configuration ---

// Option defines a functional option for configuring Aurora.
type Option = platform.Option

// WithLogger sets the logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage backend: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBackend injects a custom storage backend.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithFormat selects the slot encoding: "json" (default) or "yaml".
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithDebounce sets the quiet period before a scheduled save fires.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithRegisterer registers the save metrics with r.
func WithRegisterer(r prometheus.Registerer) Option {
	return platform.WithRegisterer(r)
}

// WithSampleTasks controls whether first run seeds the sample tasks.
func WithSampleTasks(enabled bool) Option {
	return platform.WithSampleTasks(enabled)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the go run / go test data sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// Open creates and loads a store over the data directory at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	return platform.Open(ctx, path, opts...)
}

// ReadSnapshot reads the widget snapshot at path without taking part in
// the store's save pipeline.
func ReadSnapshot(ctx context.Context, path string, opts ...Option) (Snapshot, error) {
	reader, err := platform.OpenReader(ctx, path, opts...)
	if err != nil {
		return Snapshot{}, err
	}
	defer reader.Close()
	return reader.Read(ctx)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
