package core

import "time"

// SmartList is a computed task view defined by a predicate rather than by
// stored membership.
type SmartList string

const (
	SmartListToday     SmartList = "Today"
	SmartListScheduled SmartList = "Scheduled"
	SmartListAll       SmartList = "All"
	SmartListFlagged   SmartList = "Flagged"
	SmartListCompleted SmartList = "Completed"
)

// SmartLists lists every smart list in display order.
var SmartLists = []SmartList{
	SmartListToday,
	SmartListScheduled,
	SmartListAll,
	SmartListFlagged,
	SmartListCompleted,
}

// Valid reports whether l is a known smart list.
func (l SmartList) Valid() bool {
	for _, known := range SmartLists {
		if l == known {
			return true
		}
	}
	return false
}

// Matches reports whether t belongs to the list at instant now.
// "Today" compares calendar days in now's location.
func (l SmartList) Matches(t Task, now time.Time) bool {
	switch l {
	case SmartListToday:
		return t.Due != nil && !t.Completed && sameDay(*t.Due, now)
	case SmartListScheduled:
		return t.Due != nil && !t.Completed
	case SmartListAll:
		return !t.Completed
	case SmartListFlagged:
		return t.Flagged && !t.Completed
	case SmartListCompleted:
		return t.Completed
	default:
		return false
	}
}

// Filter returns the tasks matching l, preserving order.
func (l SmartList) Filter(tasks []Task, now time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		if l.Matches(t, now) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
