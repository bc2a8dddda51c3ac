package core

import "context"

// Backend is the storage port behind the record codec. Adhering to this
// interface keeps the store independent of the physical medium (flat files,
// key-value, embedded database).
type Backend interface {
	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error

	// Read returns the bytes stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the bytes under key atomically: readers observe either
	// the previous or the new value, never a partial one.
	Write(ctx context.Context, key string, data []byte) error

	// Close releases resources held by the backend.
	Close() error
}

// Watchable is implemented by backends that can report external changes to
// their slots.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
