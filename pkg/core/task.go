// Package core holds the entities owned by the data store, the storage port
// implemented by the adapters and the error taxonomy shared by every layer.
package core

import "time"

// Priority ranks a task. The zero value is PriorityNone.
type Priority string

const (
	PriorityNone   Priority = "None"
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// OrNone maps the empty priority of older records to PriorityNone.
func (p Priority) OrNone() Priority {
	if p == "" {
		return PriorityNone
	}
	return p
}

// Task is a single to-do item.
type Task struct {
	ID         string     `json:"id" validate:"required"`
	Title      string     `json:"title"`
	Due        *time.Time `json:"date,omitempty"`
	CategoryID string     `json:"categoryId,omitempty"`
	Completed  bool       `json:"isCompleted"`
	Flagged    bool       `json:"isFlagged"`
	Reminder   bool       `json:"hasReminder"`
	Notes      string     `json:"notes"`
	URL        string     `json:"url"`
	Priority   Priority   `json:"priority" validate:"omitempty,oneof=None Low Medium High"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.Due != nil {
		due := *t.Due
		t.Due = &due
	}
	return t
}

// HasDue reports whether the task is scheduled.
func (t Task) HasDue() bool {
	return t.Due != nil
}
