package core

import (
	"path/filepath"
	"strings"
)

// Slot names one independently persisted collection.
type Slot string

const (
	SlotTasks          Slot = "tasks"
	SlotCategories     Slot = "categories"
	SlotJournalActive  Slot = "journal"
	SlotJournalTrashed Slot = "deleted_journal"
	SlotSettings       Slot = "settings"
)

// AllSlots lists every slot in flush order.
var AllSlots = []Slot{
	SlotTasks,
	SlotCategories,
	SlotJournalActive,
	SlotJournalTrashed,
	SlotSettings,
}

// Key returns the storage key of the slot for a given file extension
// (e.g. ".json" -> "tasks.json").
func (s Slot) Key(ext string) string {
	return string(s) + ext
}

// SlotFromKey maps a storage key (or file path) back to its slot.
func SlotFromKey(key string) (Slot, bool) {
	base := filepath.Base(key)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	for _, s := range AllSlots {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}
