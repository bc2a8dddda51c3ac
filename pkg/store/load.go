package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/aurora/pkg/codec"
	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/retention"
)

// Load reads every slot independently and moves the store to Ready.
//
// A slot that is missing or corrupt falls back to its default (seed
// categories, sample tasks, empty journals, default settings) and the
// default is saved right away. Any other read failure also falls back to
// the default but is not saved, so a transient error cannot overwrite good
// data. Load itself only fails on a wrong phase or a backend that cannot
// be initialized.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseUninitialized {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("cannot load store in phase %s", phase)
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	if err := s.codec.Backend().Initialize(ctx); err != nil {
		s.mu.Lock()
		s.phase = PhaseUninitialized
		s.mu.Unlock()
		return fmt.Errorf("failed to initialize backend: %w", err)
	}

	now := s.clock()
	var dirty []core.Slot
	mark := func(slot core.Slot, save bool) {
		if save && !slices.Contains(dirty, slot) {
			dirty = append(dirty, slot)
		}
	}

	categories, save := loadSlot(ctx, s, s.categoriesSlot, s.seedCategories)
	mark(core.SlotCategories, save)

	tasks, save := loadSlot(ctx, s, s.tasksSlot, func() []core.Task {
		if !s.seed {
			return []core.Task{}
		}
		return sampleTasks(categories, now, s.newID)
	})
	mark(core.SlotTasks, save)
	for i := range tasks {
		tasks[i].Priority = tasks[i].Priority.OrNone()
	}

	journal, save := loadSlot(ctx, s, s.journalSlot, emptyEntries)
	mark(core.SlotJournalActive, save)

	trashed, save := loadSlot(ctx, s, s.trashedSlot, emptyEntries)
	mark(core.SlotJournalTrashed, save)

	settings, save := loadSlot(ctx, s, s.settingsSlot, core.DefaultSettings)
	if settings.Normalize() {
		s.logger.Warn("pinned home cards over the cap, extra pins dropped")
		save = true
	}
	mark(core.SlotSettings, save)

	keep, expired := retention.Partition(trashed, now)
	if len(expired) > 0 {
		s.logger.Info("purged expired journal entries", "count", len(expired))
		trashed = keep
		mark(core.SlotJournalTrashed, true)
	}

	s.mu.Lock()
	s.tasks = nonNil(tasks)
	s.categories = nonNil(categories)
	s.journal = nonNil(journal)
	s.trashed = nonNil(trashed)
	s.settings = settings
	s.phase = PhaseReady
	s.mu.Unlock()

	s.logger.Info("store loaded",
		"tasks", len(tasks),
		"categories", len(categories),
		"journal", len(journal),
		"trashed", len(trashed),
	)

	for _, slot := range core.AllSlots {
		s.emit(core.EventReload, slot, "")
	}
	s.save(dirty...)
	return nil
}

// loadSlot reads one slot and decides whether its value must be saved.
func loadSlot[T any](ctx context.Context, s *Store, slot *codec.Slot[T], fallback func() T) (T, bool) {
	v, err := slot.Read(ctx)
	switch {
	case err == nil:
		return v, false
	case errors.Is(err, core.ErrNotFound):
		s.logger.Info("slot missing, using defaults", "slot", slot.Name())
		return fallback(), true
	case errors.Is(err, core.ErrDecode):
		s.logger.Warn("slot corrupt, using defaults", "slot", slot.Name(), "error", err)
		return fallback(), true
	default:
		s.logger.Error("slot unreadable, using defaults without saving", "slot", slot.Name(), "error", err)
		return fallback(), false
	}
}

func emptyEntries() []core.JournalEntry {
	return []core.JournalEntry{}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
