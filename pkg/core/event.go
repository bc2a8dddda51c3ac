package core

import "time"

// EventType represents the kind of change.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventRestore EventType = "RESTORE"
	EventPurge   EventType = "PURGE"
	EventReload  EventType = "RELOAD"
)

// Event describes a change to a slot. ID is empty for collection-wide
// changes (reload, bulk clears, settings).
type Event struct {
	Type      EventType
	Slot      Slot
	ID        string
	Timestamp time.Time
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type) + " " + string(e.Slot)
	}
	return string(e.Type) + " " + string(e.Slot) + "/" + e.ID
}
