package store

import (
	"fmt"
	"slices"

	"github.com/aretw0/aurora/pkg/core"
)

// AddTask appends t and schedules a tasks save. An empty ID is replaced by
// a new one. The task must validate and a non-empty CategoryID must name
// an existing category.
func (s *Store) AddTask(t core.Task) (core.Task, error) {
	t = t.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	t.Priority = t.Priority.OrNone()
	if err := core.Validate(t); err != nil {
		return core.Task{}, err
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return core.Task{}, core.ErrNotReady
	}
	if s.taskIndexLocked(t.ID) >= 0 {
		s.mu.Unlock()
		return core.Task{}, fmt.Errorf("task %s: %w", t.ID, core.ErrDuplicateID)
	}
	if !s.categoryResolvesLocked(t.CategoryID) {
		s.mu.Unlock()
		return core.Task{}, fmt.Errorf("%w: unknown category %q", core.ErrInvalid, t.CategoryID)
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.changed(core.EventCreate, t.ID, core.SlotTasks)
	return t.Clone(), nil
}

// UpdateTask replaces the task with the same ID. Unknown IDs are ignored.
// Moving a task to a category that does not exist is rejected; a dangling
// reference the task already had is kept.
func (s *Store) UpdateTask(t core.Task) error {
	t = t.Clone()
	t.Priority = t.Priority.OrNone()
	if err := core.Validate(t); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.taskIndexLocked(t.ID)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return nil
	}
	if t.CategoryID != s.tasks[i].CategoryID && !s.categoryResolvesLocked(t.CategoryID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: unknown category %q", core.ErrInvalid, t.CategoryID)
	}
	s.tasks[i] = t
	s.mu.Unlock()

	s.changed(core.EventModify, t.ID, core.SlotTasks)
	return nil
}

// DeleteTask removes the task with id. It reports whether a task was
// removed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	i := s.taskIndexLocked(id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.mu.Unlock()

	s.changed(core.EventDelete, id, core.SlotTasks)
	return true
}

// ToggleCompletion flips the completion flag of the task with id. It
// reports whether a task was found.
func (s *Store) ToggleCompletion(id string) bool {
	s.mu.Lock()
	i := s.taskIndexLocked(id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.mu.Unlock()

	s.changed(core.EventModify, id, core.SlotTasks)
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return 0
	}
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t core.Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	s.mu.Unlock()

	if removed > 0 {
		s.changed(core.EventDelete, "", core.SlotTasks)
	}
	return removed
}

// Tasks returns a copy of every task in insertion order.
func (s *Store) Tasks() []core.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Task returns the task with id.
func (s *Store) Task(id string) (core.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndexLocked(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return core.Task{}, false
}

// TasksIn returns the tasks of a smart list, evaluated at the store clock.
func (s *Store) TasksIn(list core.SmartList) []core.Task {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(list.Filter(s.tasks, now))
}

// Count returns the number of tasks in a smart list.
func (s *Store) Count(list core.SmartList) int {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tasks {
		if list.Matches(t, now) {
			n++
		}
	}
	return n
}

// TasksInCategory returns the open tasks assigned to the category with id.
func (s *Store) TasksInCategory(id string) []core.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Task{}
	for _, t := range s.tasks {
		if t.CategoryID == id && !t.Completed {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) taskIndexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t core.Task) bool { return t.ID == id })
}

func (s *Store) categoryResolvesLocked(id string) bool {
	return id == "" || s.categoryIndexLocked(id) >= 0
}

func cloneTasks(in []core.Task) []core.Task {
	out := make([]core.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
