package store

import (
	"fmt"
	"slices"

	"github.com/aretw0/aurora/pkg/core"
)

// AddCategory appends c and schedules a categories save. Names may repeat.
func (s *Store) AddCategory(c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	if err := core.Validate(c); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return core.Category{}, core.ErrNotReady
	}
	if s.categoryIndexLocked(c.ID) >= 0 {
		s.mu.Unlock()
		return core.Category{}, fmt.Errorf("category %s: %w", c.ID, core.ErrDuplicateID)
	}
	s.categories = append(s.categories, c)
	s.mu.Unlock()

	s.changed(core.EventCreate, c.ID, core.SlotCategories)
	return c, nil
}

// UpdateCategory replaces the category with the same ID. Unknown IDs are
// ignored.
func (s *Store) UpdateCategory(c core.Category) error {
	if err := core.Validate(c); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.categoryIndexLocked(c.ID)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.categories[i] = c
	s.mu.Unlock()

	s.changed(core.EventModify, c.ID, core.SlotCategories)
	return nil
}

// DeleteCategory removes the category with id. Tasks pointing at it keep
// the now dangling reference and pins naming it are left alone.
func (s *Store) DeleteCategory(id string) bool {
	s.mu.Lock()
	i := s.categoryIndexLocked(id)
	if !s.readyLocked() || i < 0 {
		s.mu.Unlock()
		return false
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	s.mu.Unlock()

	s.changed(core.EventDelete, id, core.SlotCategories)
	return true
}

// Categories returns a copy of every category in insertion order.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Category returns the category with id.
func (s *Store) Category(id string) (core.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.categoryIndexLocked(id); i >= 0 {
		return s.categories[i], true
	}
	return core.Category{}, false
}

func (s *Store) categoryIndexLocked(id string) int {
	return slices.IndexFunc(s.categories, func(c core.Category) bool { return c.ID == id })
}
