package store

import (
	"slices"

	"github.com/aretw0/aurora/pkg/core"
)

// UpdateSettings merges patch into the settings record. Pins past the cap
// are dropped, smart lists first.
func (s *Store) UpdateSettings(patch core.SettingsPatch) {
	if patch.Empty() {
		return
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return
	}
	s.settings = patch.Apply(s.settings)
	s.mu.Unlock()

	s.changed(core.EventModify, "", core.SlotSettings)
}

// PinSmartList pins list to the home screen. It returns false when the
// list is unknown or the pin cap is reached; pinning an already pinned
// list succeeds without a change.
func (s *Store) PinSmartList(list core.SmartList) bool {
	if !list.Valid() {
		return false
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return false
	}
	if slices.Contains(s.settings.PinnedHomeSmartLists, list) {
		s.mu.Unlock()
		return true
	}
	if s.settings.PinnedCount() >= core.MaxPinned {
		s.mu.Unlock()
		return false
	}
	s.settings.PinnedHomeSmartLists = append(slices.Clone(s.settings.PinnedHomeSmartLists), list)
	s.mu.Unlock()

	s.changed(core.EventModify, "", core.SlotSettings)
	return true
}

// PinCategory pins the category with id to the home screen. It returns
// false when the category does not exist or the pin cap is reached.
func (s *Store) PinCategory(id string) bool {
	s.mu.Lock()
	if !s.readyLocked() || s.categoryIndexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	if slices.Contains(s.settings.PinnedHomeCategoryIDs, id) {
		s.mu.Unlock()
		return true
	}
	if s.settings.PinnedCount() >= core.MaxPinned {
		s.mu.Unlock()
		return false
	}
	s.settings.PinnedHomeCategoryIDs = append(slices.Clone(s.settings.PinnedHomeCategoryIDs), id)
	s.mu.Unlock()

	s.changed(core.EventModify, "", core.SlotSettings)
	return true
}

// UnpinSmartList removes list from the home screen.
func (s *Store) UnpinSmartList(list core.SmartList) bool {
	s.mu.Lock()
	i := slices.Index(s.settings.PinnedHomeSmartLists, list)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.settings.PinnedHomeSmartLists = slices.Delete(slices.Clone(s.settings.PinnedHomeSmartLists), i, i+1)
	s.mu.Unlock()

	s.changed(core.EventModify, "", core.SlotSettings)
	return true
}

// UnpinCategory removes the category with id from the home screen. It
// works for categories that no longer exist.
func (s *Store) UnpinCategory(id string) bool {
	s.mu.Lock()
	i := slices.Index(s.settings.PinnedHomeCategoryIDs, id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.settings.PinnedHomeCategoryIDs = slices.Delete(slices.Clone(s.settings.PinnedHomeCategoryIDs), i, i+1)
	s.mu.Unlock()

	s.changed(core.EventModify, "", core.SlotSettings)
	return true
}

// Settings returns a copy of the settings record.
func (s *Store) Settings() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}
