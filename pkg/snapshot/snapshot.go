// Package snapshot is the read-only view used by home-screen widgets. It
// opens the same storage as the store, shares no locks with it and
// tolerates stale or partially unreadable data.
package snapshot

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/aretw0/aurora/pkg/codec"
	"github.com/aretw0/aurora/pkg/core"
)

// Snapshot is what a widget renders from.
type Snapshot struct {
	Tasks      []core.Task
	Categories []core.Category
	Settings   core.Settings
	ReadAt     time.Time
}

// Card is one pinned home card: either a smart list or a category.
type Card struct {
	SmartList core.SmartList
	Category  *core.Category
	Tasks     []core.Task
}

// Reader loads snapshots.
type Reader struct {
	codec *codec.Codec
	clock func() time.Time
}

// NewReader creates a reader over c. The backend should be opened read-only.
func NewReader(c *codec.Codec) *Reader {
	return &Reader{codec: c, clock: time.Now}
}

// Close releases the backend the reader was opened over.
func (r *Reader) Close() error {
	return r.codec.Backend().Close()
}

// Read loads tasks, categories and settings. A missing slot reads as empty
// (default settings); a slot that fails to decode is reported in the
// returned error while the other slots are still filled in.
func (r *Reader) Read(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		Tasks:      []core.Task{},
		Categories: []core.Category{},
		Settings:   core.DefaultSettings(),
		ReadAt:     r.clock(),
	}

	var errs []error
	if tasks, err := codec.For[[]core.Task](r.codec, core.SlotTasks).Read(ctx); err == nil {
		snap.Tasks = tasks
	} else if !errors.Is(err, core.ErrNotFound) {
		errs = append(errs, err)
	}
	if categories, err := codec.For[[]core.Category](r.codec, core.SlotCategories).Read(ctx); err == nil {
		snap.Categories = categories
	} else if !errors.Is(err, core.ErrNotFound) {
		errs = append(errs, err)
	}
	if settings, err := codec.For[core.Settings](r.codec, core.SlotSettings).Read(ctx); err == nil {
		settings.Normalize()
		snap.Settings = settings
	} else if !errors.Is(err, core.ErrNotFound) {
		errs = append(errs, err)
	}

	if snap.Tasks == nil {
		snap.Tasks = []core.Task{}
	}
	if snap.Categories == nil {
		snap.Categories = []core.Category{}
	}
	return snap, errors.Join(errs...)
}

// Today returns the open tasks due on the calendar day of now, earliest
// first.
func (s Snapshot) Today(now time.Time) []core.Task {
	out := core.SmartListToday.Filter(s.Tasks, now)
	slices.SortStableFunc(out, func(a, b core.Task) int {
		return a.Due.Compare(*b.Due)
	})
	return out
}

// Pinned returns the pinned home cards in display order, smart lists first.
// Pinned categories that no longer exist are skipped.
func (s Snapshot) Pinned(now time.Time) []Card {
	var cards []Card
	for _, list := range s.Settings.PinnedHomeSmartLists {
		cards = append(cards, Card{SmartList: list, Tasks: list.Filter(s.Tasks, now)})
	}
	for _, id := range s.Settings.PinnedHomeCategoryIDs {
		i := slices.IndexFunc(s.Categories, func(c core.Category) bool { return c.ID == id })
		if i < 0 {
			continue
		}
		c := s.Categories[i]
		var tasks []core.Task
		for _, t := range s.Tasks {
			if t.CategoryID == id && !t.Completed {
				tasks = append(tasks, t.Clone())
			}
		}
		cards = append(cards, Card{Category: &c, Tasks: tasks})
	}
	return cards
}
