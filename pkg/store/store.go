// Package store is the data store orchestrator. It owns the in-memory task,
// category, journal and settings collections, applies every mutation
// synchronously and persists the affected slots in the background through
// the debounced save scheduler.
//
// Persistence is best-effort: write failures are logged and never surface
// through the mutating operations. Call FlushAll (or Close) before the
// process exits so no mutation is lost.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/aurora/pkg/codec"
	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/scheduler"
)

// Phase is the lifecycle state of a Store.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseClosed        Phase = "closed"
)

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)

// Store holds the five collections of the application.
type Store struct {
	codec  *codec.Codec
	logger *slog.Logger
	clock  func() time.Time
	newID  func() string
	seed   bool
	saver  *scheduler.Scheduler

	tasksSlot      *codec.Slot[[]core.Task]
	categoriesSlot *codec.Slot[[]core.Category]
	journalSlot    *codec.Slot[[]core.JournalEntry]
	trashedSlot    *codec.Slot[[]core.JournalEntry]
	settingsSlot   *codec.Slot[core.Settings]

	mu         sync.RWMutex
	phase      Phase
	tasks      []core.Task
	categories []core.Category
	journal    []core.JournalEntry
	trashed    []core.JournalEntry
	settings   core.Settings

	subMu   sync.Mutex
	subs    map[int]func(core.Event)
	nextSub int
}

// New creates a store over c. The store is empty until Load is called.
func New(c *codec.Codec, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Store{
		codec:  c,
		logger: o.logger,
		clock:  o.clock,
		newID:  o.newID,
		seed:   o.seed,
		saver: scheduler.New(scheduler.Config{
			Interval:   o.debounce,
			Logger:     o.logger.With("component", "save-queue"),
			Registerer: o.registerer,
		}),
		tasksSlot:      codec.For[[]core.Task](c, core.SlotTasks),
		categoriesSlot: codec.For[[]core.Category](c, core.SlotCategories),
		journalSlot:    codec.For[[]core.JournalEntry](c, core.SlotJournalActive),
		trashedSlot:    codec.For[[]core.JournalEntry](c, core.SlotJournalTrashed),
		settingsSlot:   codec.For[core.Settings](c, core.SlotSettings),
		phase:          PhaseUninitialized,
		settings:       core.DefaultSettings(),
		subs:           make(map[int]func(core.Event)),
	}
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Subscribe registers fn to be called synchronously after every change.
// Observers run on the mutating goroutine, after the store lock has been
// released, so they may read from the store. The returned func removes fn.
func (s *Store) Subscribe(fn func(core.Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) emit(typ core.EventType, slot core.Slot, id string) {
	e := core.Event{Type: typ, Slot: slot, ID: id, Timestamp: s.clock()}

	s.subMu.Lock()
	fns := make([]func(core.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// FlushAll cancels every pending save and writes all five slots in flush
// order, waiting for the writes to land. Failed writes are logged and
// returned joined.
func (s *Store) FlushAll(ctx context.Context) error {
	if s.Phase() != PhaseReady {
		return core.ErrNotReady
	}
	return s.flush(ctx)
}

func (s *Store) flush(ctx context.Context) error {
	entries := make([]scheduler.Entry, 0, len(core.AllSlots))
	for _, slot := range core.AllSlots {
		entries = append(entries, scheduler.Entry{Slot: slot, Write: s.writer(slot)})
	}

	if err := s.saver.Flush(ctx, entries); err != nil {
		s.logger.Error("flush failed", "error", err)
		return err
	}
	s.logger.Debug("store flushed")
	return nil
}

// Close flushes every slot, stops the save queue and closes the backend.
// The store ignores mutations afterwards. Close is idempotent.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil
	}
	wasReady := s.phase == PhaseReady
	s.phase = PhaseClosed
	s.mu.Unlock()

	var errs []error
	if wasReady {
		if err := s.flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.saver.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop save queue: %w", err))
	}
	if err := s.codec.Backend().Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
	}
	return errors.Join(errs...)
}

// writer returns the save function of slot. It snapshots the live
// collection when the save runs, never when it is scheduled.
func (s *Store) writer(slot core.Slot) scheduler.Writer {
	switch slot {
	case core.SlotTasks:
		return func(ctx context.Context) error {
			return s.tasksSlot.Write(ctx, s.Tasks())
		}
	case core.SlotCategories:
		return func(ctx context.Context) error {
			return s.categoriesSlot.Write(ctx, s.Categories())
		}
	case core.SlotJournalActive:
		return func(ctx context.Context) error {
			return s.journalSlot.Write(ctx, s.JournalEntries())
		}
	case core.SlotJournalTrashed:
		return func(ctx context.Context) error {
			return s.trashedSlot.Write(ctx, s.TrashedEntries())
		}
	case core.SlotSettings:
		return func(ctx context.Context) error {
			return s.settingsSlot.Write(ctx, s.Settings())
		}
	default:
		return func(context.Context) error {
			return fmt.Errorf("unknown slot %q", slot)
		}
	}
}

// save routes a slot to the scheduler. The trashed journal is written
// right away; every other slot is debounced.
func (s *Store) save(slots ...core.Slot) {
	for _, slot := range slots {
		if slot == core.SlotJournalTrashed {
			s.saver.Now(slot, s.writer(slot))
			continue
		}
		s.saver.Schedule(slot, s.writer(slot))
	}
}

// changed emits one event per slot touched and schedules their saves.
func (s *Store) changed(typ core.EventType, id string, slots ...core.Slot) {
	for _, slot := range slots {
		s.emit(typ, slot, id)
	}
	s.save(slots...)
}

// readyLocked reports whether mutations are accepted. Callers hold mu.
func (s *Store) readyLocked() bool {
	return s.phase == PhaseReady
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Phase        Phase       `json:"phase"`
	Tasks        int         `json:"tasks"`
	Categories   int         `json:"categories"`
	Journal      int         `json:"journal"`
	Trashed      int         `json:"trashed"`
	Pinned       int         `json:"pinned"`
	PendingSaves []core.Slot `json:"pending_saves"`
	Backend      any         `json:"backend,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	state := StoreState{
		Phase:      s.phase,
		Tasks:      len(s.tasks),
		Categories: len(s.categories),
		Journal:    len(s.journal),
		Trashed:    len(s.trashed),
		Pinned:     s.settings.PinnedCount(),
	}
	s.mu.RUnlock()

	state.PendingSaves = s.saver.Pending()
	if in, ok := s.codec.Backend().(introspection.Introspectable); ok {
		state.Backend = in.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}
