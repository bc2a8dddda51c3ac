package store

import (
	"fmt"
	"slices"

	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/retention"
)

// AddJournalEntry appends an active entry. A zero Date is set to now and
// any DeletedAt is cleared.
func (s *Store) AddJournalEntry(e core.JournalEntry) (core.JournalEntry, error) {
	e = e.Clone()
	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.Date.IsZero() {
		e.Date = s.clock()
	}
	if e.Theme == "" {
		e.Theme = core.ThemeDefault
	}
	e.DeletedAt = nil
	if err := core.Validate(e); err != nil {
		return core.JournalEntry{}, err
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return core.JournalEntry{}, core.ErrNotReady
	}
	if indexOf(s.journal, e.ID) >= 0 || indexOf(s.trashed, e.ID) >= 0 {
		s.mu.Unlock()
		return core.JournalEntry{}, fmt.Errorf("journal entry %s: %w", e.ID, core.ErrDuplicateID)
	}
	s.journal = append(s.journal, e)
	s.mu.Unlock()

	s.changed(core.EventCreate, e.ID, core.SlotJournalActive)
	return e.Clone(), nil
}

// UpdateJournalEntry replaces the active entry with the same ID. Trashed
// and unknown entries are ignored.
func (s *Store) UpdateJournalEntry(e core.JournalEntry) error {
	e = e.Clone()
	e.DeletedAt = nil
	if err := core.Validate(e); err != nil {
		return err
	}

	s.mu.Lock()
	i := indexOf(s.journal, e.ID)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.journal[i] = e
	s.mu.Unlock()

	s.changed(core.EventModify, e.ID, core.SlotJournalActive)
	return nil
}

// DeleteJournalEntry soft-deletes the active entry with id: it is stamped
// with the deletion time and moved to the trash. Both journal slots are
// saved and the trash is swept afterwards.
func (s *Store) DeleteJournalEntry(id string) bool {
	now := s.clock()

	s.mu.Lock()
	i := indexOf(s.journal, id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	e := s.journal[i]
	e.DeletedAt = &now
	s.journal = slices.Delete(s.journal, i, i+1)
	s.trashed = append(s.trashed, e)
	s.mu.Unlock()

	s.changed(core.EventDelete, id, core.SlotJournalActive, core.SlotJournalTrashed)
	s.PurgeExpired()
	return true
}

// RestoreJournalEntry moves the trashed entry with id back to the active
// journal, clearing its deletion time.
func (s *Store) RestoreJournalEntry(id string) bool {
	s.mu.Lock()
	i := indexOf(s.trashed, id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	e := s.trashed[i]
	e.DeletedAt = nil
	s.trashed = slices.Delete(s.trashed, i, i+1)
	s.journal = append(s.journal, e)
	s.mu.Unlock()

	s.changed(core.EventRestore, id, core.SlotJournalActive, core.SlotJournalTrashed)
	return true
}

// PermanentlyDeleteJournalEntry erases the trashed entry with id.
func (s *Store) PermanentlyDeleteJournalEntry(id string) bool {
	s.mu.Lock()
	i := indexOf(s.trashed, id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.trashed = slices.Delete(s.trashed, i, i+1)
	s.mu.Unlock()

	s.changed(core.EventPurge, id, core.SlotJournalTrashed)
	return true
}

// EmptyTrash erases every trashed entry and returns how many were erased.
func (s *Store) EmptyTrash() int {
	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return 0
	}
	n := len(s.trashed)
	s.trashed = []core.JournalEntry{}
	s.mu.Unlock()

	if n > 0 {
		s.changed(core.EventPurge, "", core.SlotJournalTrashed)
	}
	return n
}

// PurgeExpired erases trashed entries past the retention window and
// returns how many were erased.
func (s *Store) PurgeExpired() int {
	now := s.clock()

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return 0
	}
	keep, expired := retention.Partition(s.trashed, now)
	if len(expired) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.trashed = nonNil(keep)
	s.mu.Unlock()

	s.logger.Info("purged expired journal entries", "count", len(expired))
	for _, e := range expired {
		s.emit(core.EventPurge, core.SlotJournalTrashed, e.ID)
	}
	s.save(core.SlotJournalTrashed)
	return len(expired)
}

// JournalEntries returns a copy of the active journal.
func (s *Store) JournalEntries() []core.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.journal)
}

// TrashedEntries returns a copy of the trash.
func (s *Store) TrashedEntries() []core.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.trashed)
}

// JournalEntry returns the active or trashed entry with id.
func (s *Store) JournalEntry(id string) (core.JournalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.journal, id); i >= 0 {
		return s.journal[i].Clone(), true
	}
	if i := indexOf(s.trashed, id); i >= 0 {
		return s.trashed[i].Clone(), true
	}
	return core.JournalEntry{}, false
}

func indexOf(entries []core.JournalEntry, id string) int {
	return slices.IndexFunc(entries, func(e core.JournalEntry) bool { return e.ID == id })
}

func cloneEntries(in []core.JournalEntry) []core.JournalEntry {
	out := make([]core.JournalEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
