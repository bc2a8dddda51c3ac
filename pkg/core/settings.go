package core

import "slices"

// MaxPinned caps the cards pinned to the home screen (smart lists and
// categories together).
const MaxPinned = 2

// Settings is the single per-installation preferences record.
// Pinned order is significant: smart lists come first, then categories,
// left to right.
type Settings struct {
	VisibleSmartLists     []SmartList `json:"visibleSmartLists"`
	VisibleCategories     []string    `json:"visibleCategories"`
	SmartListOrder        []SmartList `json:"smartListOrder"`
	PinnedHomeSmartLists  []SmartList `json:"pinnedHomeSmartLists"`
	PinnedHomeCategoryIDs []string    `json:"pinnedHomeCategoryIds"`
	WeekStartsOnMonday    bool        `json:"weekStartsOnMonday"`
}

// DefaultSettings returns the record used on first run.
func DefaultSettings() Settings {
	return Settings{
		VisibleSmartLists:     []SmartList{SmartListToday, SmartListAll, SmartListFlagged},
		VisibleCategories:     []string{},
		SmartListOrder:        []SmartList{},
		PinnedHomeSmartLists:  []SmartList{SmartListFlagged},
		PinnedHomeCategoryIDs: []string{},
		WeekStartsOnMonday:    true,
	}
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	s.VisibleSmartLists = slices.Clone(s.VisibleSmartLists)
	s.VisibleCategories = slices.Clone(s.VisibleCategories)
	s.SmartListOrder = slices.Clone(s.SmartListOrder)
	s.PinnedHomeSmartLists = slices.Clone(s.PinnedHomeSmartLists)
	s.PinnedHomeCategoryIDs = slices.Clone(s.PinnedHomeCategoryIDs)
	return s
}

// PinnedCount returns the number of pinned home cards.
func (s Settings) PinnedCount() int {
	return len(s.PinnedHomeSmartLists) + len(s.PinnedHomeCategoryIDs)
}

// Normalize removes duplicate pins and drops pins past MaxPinned, keeping
// smart lists before categories. It reports whether anything was dropped.
func (s *Settings) Normalize() bool {
	before := s.PinnedCount()

	lists := dedupe(s.PinnedHomeSmartLists)
	if len(lists) > MaxPinned {
		lists = lists[:MaxPinned]
	}
	ids := dedupe(s.PinnedHomeCategoryIDs)
	if room := MaxPinned - len(lists); len(ids) > room {
		ids = ids[:room]
	}

	s.PinnedHomeSmartLists = lists
	s.PinnedHomeCategoryIDs = ids
	return s.PinnedCount() != before
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	VisibleSmartLists     *[]SmartList
	VisibleCategories     *[]string
	SmartListOrder        *[]SmartList
	PinnedHomeSmartLists  *[]SmartList
	PinnedHomeCategoryIDs *[]string
	WeekStartsOnMonday    *bool
}

// Apply merges the patch into s and enforces the pin cap.
func (p SettingsPatch) Apply(s Settings) Settings {
	s = s.Clone()
	if p.VisibleSmartLists != nil {
		s.VisibleSmartLists = slices.Clone(*p.VisibleSmartLists)
	}
	if p.VisibleCategories != nil {
		s.VisibleCategories = slices.Clone(*p.VisibleCategories)
	}
	if p.SmartListOrder != nil {
		s.SmartListOrder = slices.Clone(*p.SmartListOrder)
	}
	if p.PinnedHomeSmartLists != nil {
		s.PinnedHomeSmartLists = slices.Clone(*p.PinnedHomeSmartLists)
	}
	if p.PinnedHomeCategoryIDs != nil {
		s.PinnedHomeCategoryIDs = slices.Clone(*p.PinnedHomeCategoryIDs)
	}
	if p.WeekStartsOnMonday != nil {
		s.WeekStartsOnMonday = *p.WeekStartsOnMonday
	}
	s.Normalize()
	return s
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.VisibleSmartLists == nil && p.VisibleCategories == nil &&
		p.SmartListOrder == nil && p.PinnedHomeSmartLists == nil &&
		p.PinnedHomeCategoryIDs == nil && p.WeekStartsOnMonday == nil
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
