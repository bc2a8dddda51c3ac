package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/aurora/pkg/adapters/fs"
	"github.com/aretw0/aurora/pkg/adapters/memory"
	"github.com/aretw0/aurora/pkg/adapters/sqlite"
	"github.com/aretw0/aurora/pkg/core"
)

// Init builds and initializes the storage backend for uri. The uri is the
// data directory for the fs and sqlite adapters and is ignored by memory.
func Init(ctx context.Context, uri string, opts ...Option) (core.Backend, error) {
	o := apply(opts)
	return initBackend(ctx, uri, o)
}

func initBackend(ctx context.Context, uri string, o *options) (core.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}

	var backend core.Backend
	switch o.adapter {
	case AdapterFS:
		backend = fs.NewBackend(fs.Config{
			Path:      resolvePath(uri, o),
			MustExist: o.flag("must_exist", false),
			ReadOnly:  o.flag("read_only", false),
			Logger:    o.logger.With("component", "fs"),
		})
	case AdapterSQLite:
		backend = sqlite.NewBackend(sqlite.Config{
			Path:      filepath.Join(resolvePath(uri, o), sqlite.DefaultFile),
			MustExist: o.flag("must_exist", false),
			ReadOnly:  o.flag("read_only", false),
			Logger:    o.logger.With("component", "sqlite"),
		})
	case AdapterMemory:
		backend = memory.New()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := backend.Initialize(ctx); err != nil {
		return nil, err
	}
	return backend, nil
}

// resolvePath applies dev safety to the data directory.
func resolvePath(path string, o *options) string {
	readOnly := o.flag("read_only", false)
	devSafety := o.flag("dev_safety", true)

	// Read-only access is inherently safe.
	bypassSafety := readOnly || !devSafety
	useTemp := o.flag("temp_dir", false) || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if IsDevRun() {
		switch {
		case readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}
