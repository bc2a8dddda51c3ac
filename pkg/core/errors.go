package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound    = errors.New("slot not found")
	ErrDecode      = errors.New("slot decode failed")
	ErrWrite       = errors.New("slot write failed")
	ErrReadOnly    = errors.New("backend is in read-only mode")
	ErrInvalid     = errors.New("invalid entity")
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotReady    = errors.New("store is not ready")
)

// DecodeError reports corrupt or schema-mismatched bytes in a slot.
type DecodeError struct {
	Slot Slot
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode slot %s: %v", e.Slot, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// WriteError reports a failed durable write of a slot.
type WriteError struct {
	Slot Slot
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write slot %s: %v", e.Slot, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }
