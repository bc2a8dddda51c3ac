// Package codec is the durable record codec: it serializes slot values and
// hands the bytes to a core.Backend. It never retries and never substitutes
// defaults; recovering from NotFound or DecodeError is the caller's job.
package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/aurora/pkg/core"
)

// Codec binds a serializer to a backend.
type Codec struct {
	backend    core.Backend
	serializer Serializer
}

// New creates a codec. A nil serializer means JSON.
func New(backend core.Backend, serializer Serializer) *Codec {
	if serializer == nil {
		serializer = NewJSONSerializer()
	}
	return &Codec{backend: backend, serializer: serializer}
}

// Backend returns the underlying backend.
func (c *Codec) Backend() core.Backend {
	return c.backend
}

// Serializer returns the serializer in use.
func (c *Codec) Serializer() Serializer {
	return c.serializer
}

// Key returns the storage key of slot.
func (c *Codec) Key(slot core.Slot) string {
	return slot.Key(c.serializer.Ext())
}

// Read decodes slot into v. It returns an error wrapping core.ErrNotFound
// when the slot was never written and a *core.DecodeError when its bytes
// cannot be decoded.
func (c *Codec) Read(ctx context.Context, slot core.Slot, v any) error {
	data, err := c.backend.Read(ctx, c.Key(slot))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("slot %s: %w", slot, core.ErrNotFound)
		}
		return fmt.Errorf("failed to read slot %s: %w", slot, err)
	}

	if err := c.serializer.Unmarshal(data, v); err != nil {
		return &core.DecodeError{Slot: slot, Err: err}
	}
	return nil
}

// Write encodes v and atomically replaces slot. Failures are reported as
// *core.WriteError.
func (c *Codec) Write(ctx context.Context, slot core.Slot, v any) error {
	data, err := c.serializer.Marshal(v)
	if err != nil {
		return &core.WriteError{Slot: slot, Err: fmt.Errorf("failed to serialize: %w", err)}
	}
	if err := c.backend.Write(ctx, c.Key(slot), data); err != nil {
		return &core.WriteError{Slot: slot, Err: err}
	}
	return nil
}

// Slot is a type-safe handle on one slot.
type Slot[T any] struct {
	codec *Codec
	slot  core.Slot
}

// For creates a typed handle on slot.
func For[T any](c *Codec, slot core.Slot) *Slot[T] {
	return &Slot[T]{codec: c, slot: slot}
}

// Name returns the slot name.
func (s *Slot[T]) Name() core.Slot {
	return s.slot
}

// Read decodes the slot. On error the zero value is returned.
func (s *Slot[T]) Read(ctx context.Context) (T, error) {
	var v T
	if err := s.codec.Read(ctx, s.slot, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Write replaces the slot with v.
func (s *Slot[T]) Write(ctx context.Context, v T) error {
	return s.codec.Write(ctx, s.slot, v)
}
