package store

import (
	"time"

	"github.com/aretw0/aurora/pkg/core"
)

func (s *Store) seedCategories() []core.Category {
	categories := core.DefaultCategories()
	for i := range categories {
		categories[i].ID = s.newID()
	}
	return categories
}

// sampleTasks returns the first-run tasks, due later today. Each binds to
// a seed category by name; a missing category leaves the task
// uncategorised.
func sampleTasks(categories []core.Category, now time.Time, newID func() string) []core.Task {
	at := func(hour, min int) *time.Time {
		y, m, d := now.Date()
		t := time.Date(y, m, d, hour, min, 0, 0, now.Location())
		return &t
	}
	category := func(name string) string {
		if c, ok := core.FindCategoryByName(categories, name); ok {
			return c.ID
		}
		return ""
	}

	tasks := []core.Task{
		{Title: "Follow up with a client", Due: at(10, 30), Priority: core.PriorityMedium, CategoryID: category(core.CategoryWork), Reminder: true},
		{Title: "Send design mocks", Due: at(13, 30), Priority: core.PriorityHigh, CategoryID: category(core.CategoryWork), Flagged: true, Reminder: true},
		{Title: "Prepare for a meeting", Due: at(15, 0), Priority: core.PriorityMedium, CategoryID: category(core.CategoryWork), Reminder: true},
		{Title: "Groceries", Due: at(21, 30), Priority: core.PriorityLow, CategoryID: category(core.CategoryShopping), Reminder: true},
		{Title: "Call mom", Due: at(19, 0), Priority: core.PriorityHigh, CategoryID: category(core.CategoryPersonal), Flagged: true, Reminder: true},
	}
	for i := range tasks {
		tasks[i].ID = newID()
	}
	return tasks
}
