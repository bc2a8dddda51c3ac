// Package sqlite stores slots as rows of an embedded SQLite database, one
// row per slot key. It uses the pure-Go driver so builds stay cgo-free.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/aretw0/aurora/pkg/core"
)

// DefaultFile is the database file name inside the data directory.
const DefaultFile = "aurora.db"

var (
	_ core.Backend                = (*Backend)(nil)
	_ introspection.Introspectable = (*Backend)(nil)
	_ introspection.Component      = (*Backend)(nil)
)

// slotRecord is the single table of the database.
type slotRecord struct {
	Key       string `gorm:"primaryKey;column:slot_key"`
	Data      []byte
	UpdatedAt time.Time
}

func (slotRecord) TableName() string { return "slots" }

// Config holds the configuration for the SQLite backend.
type Config struct {
	// Path is the database file. Its directory is created on Initialize
	// unless MustExist or ReadOnly is set.
	Path string
	// MustExist fails Initialize when the database file is missing.
	MustExist bool
	// ReadOnly opens the database in read-only mode: the file must exist,
	// no schema is created and writes return core.ErrReadOnly.
	ReadOnly bool
	Logger   *slog.Logger
}

// Backend implements core.Backend with gorm.
type Backend struct {
	config Config

	mu sync.RWMutex
	db *gorm.DB
	// hasTable is false when a read-only database predates the slots table.
	hasTable bool
}

// NewBackend creates a backend; the database is opened by Initialize.
func NewBackend(config Config) *Backend {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{config: config}
}

// Initialize opens the database and, unless read-only, migrates the slots
// table.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return nil
	}

	readOnly := b.config.ReadOnly
	if readOnly || b.config.MustExist {
		info, err := os.Stat(b.config.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("database does not exist: %s", b.config.Path)
			}
			return fmt.Errorf("failed to stat database: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("database path is a directory: %s", b.config.Path)
		}
	} else if err := os.MkdirAll(filepath.Dir(b.config.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := b.config.Path
	if readOnly {
		// URI form so the driver honours mode=ro instead of stripping it.
		dsn = "file:" + filepath.ToSlash(b.config.Path) + "?mode=ro"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if readOnly {
		b.hasTable = db.WithContext(ctx).Migrator().HasTable(&slotRecord{})
	} else {
		if err := db.WithContext(ctx).AutoMigrate(&slotRecord{}); err != nil {
			closeDB(db)
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		b.hasTable = true
	}

	b.db = db
	b.config.Logger.Debug("sqlite backend ready", "path", b.config.Path, "read_only", readOnly)
	return nil
}

// Read returns the bytes stored under key.
func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, core.ErrNotReady
	}
	if !b.hasTable {
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	}

	var rec slotRecord
	err := b.db.WithContext(ctx).Where("slot_key = ?", key).First(&rec).Error
	switch {
	case err == nil:
		return rec.Data, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	default:
		return nil, fmt.Errorf("find slot %s: %w", key, err)
	}
}

// Write upserts the row for key inside a single statement.
func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return core.ErrNotReady
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}

	rec := slotRecord{Key: key, Data: data, UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool. Reads and writes in
// flight finish first.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	b.db = nil
	b.hasTable = false
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// BackendState exposes internal state for observability.
type BackendState struct {
	Path     string   `json:"path"`
	ReadOnly bool     `json:"read_only"`
	Open     bool     `json:"open"`
	Keys     []string `json:"keys,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	state := BackendState{
		Path:     b.config.Path,
		ReadOnly: b.config.ReadOnly,
		Open:     b.db != nil,
	}
	if b.db != nil && b.hasTable {
		_ = b.db.Model(&slotRecord{}).Order("slot_key ASC").Pluck("slot_key", &state.Keys).Error
	}
	return state
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sqlite-backend"
}
