// Package memory provides an in-memory key-value backend used for tests,
// ephemeral sessions and as the key-value flavour of the storage port.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/aurora/pkg/core"
)

// Compile-time contract assertion.
var _ core.Backend = (*Backend)(nil)

// Backend stores slot bytes in a map. Values are copied on the way in and
// out, so callers can never alias stored data.
type Backend struct {
	mu      sync.RWMutex
	data    map[string][]byte
	writes  map[string]int
	failErr error
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		data:   make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Initialize is a no-op.
func (b *Backend) Initialize(ctx context.Context) error { return nil }

// Read returns a copy of the bytes under key.
func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Write replaces the bytes under key.
func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failErr != nil {
		return b.failErr
	}
	b.data[key] = append([]byte(nil), data...)
	b.writes[key]++
	return nil
}

// Close is a no-op; the data survives so a new store can reload it.
func (b *Backend) Close() error { return nil }

// Put seeds raw bytes under key without counting a write.
func (b *Backend) Put(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), data...)
}

// Writes returns how many times key was written through Write.
func (b *Backend) Writes(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes[key]
}

// Keys returns the number of stored keys.
func (b *Backend) Keys() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// FailWrites makes every subsequent Write return err (nil restores writes).
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}
