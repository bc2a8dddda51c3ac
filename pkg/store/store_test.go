package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aurora/pkg/adapters/memory"
	"github.com/aretw0/aurora/pkg/codec"
	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/store"
)

const debounce = 20 * time.Millisecond

var now = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T, backend core.Backend, opts ...store.Option) *store.Store {
	t.Helper()

	base := []store.Option{
		store.WithDebounce(debounce),
		store.WithClock(func() time.Time { return now }),
	}
	s := store.New(codec.New(backend, nil), append(base, opts...)...)
	require.NoError(t, s.Load(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func put(t *testing.T, b *memory.Backend, slot core.Slot, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	b.Put(slot.Key(".json"), data)
}

func decode[T any](t *testing.T, b *memory.Backend, slot core.Slot) T {
	t.Helper()
	data, err := b.Read(context.Background(), slot.Key(".json"))
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func counter() store.Option {
	var mu sync.Mutex
	n := 0
	return store.WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestStore_FirstRun(t *testing.T) {
	backend := memory.New()
	s := openStore(t, backend, counter())

	assert.Equal(t, store.PhaseReady, s.Phase())

	categories := s.Categories()
	require.Len(t, categories, 5)
	assert.Equal(t, core.CategoryReminders, categories[0].Name)
	for _, c := range categories {
		assert.NotEmpty(t, c.ID)
	}

	work, ok := core.FindCategoryByName(categories, core.CategoryWork)
	require.True(t, ok)
	tasks := s.Tasks()
	require.Len(t, tasks, 5)
	assert.Equal(t, "Follow up with a client", tasks[0].Title)
	assert.Equal(t, work.ID, tasks[0].CategoryID)
	assert.Equal(t, 5, s.Count(core.SmartListToday))

	assert.Empty(t, s.JournalEntries())
	assert.Empty(t, s.TrashedEntries())
	assert.Equal(t, core.DefaultSettings(), s.Settings())

	// Recovered defaults are persisted without any mutation.
	assert.Eventually(t, func() bool { return backend.Keys() == len(core.AllSlots) }, time.Second, 5*time.Millisecond)
}

func TestStore_WithoutSampleTasks(t *testing.T) {
	s := openStore(t, memory.New(), store.WithSampleTasks(false))
	assert.Empty(t, s.Tasks())
	assert.Len(t, s.Categories(), 5)
}

func TestStore_TaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := openStore(t, backend, store.WithSampleTasks(false))

	due := now.Add(48 * time.Hour)
	a, err := s.AddTask(core.Task{Title: "a", Due: &due, Notes: "n", URL: "https://example.com"})
	require.NoError(t, err)
	b, err := s.AddTask(core.Task{Title: "b", Priority: core.PriorityHigh, Flagged: true})
	require.NoError(t, err)
	c, err := s.AddTask(core.Task{Title: "c"})
	require.NoError(t, err)

	b.Title = "b2"
	require.NoError(t, s.UpdateTask(b))
	assert.True(t, s.DeleteTask(a.ID))
	assert.True(t, s.ToggleCompletion(c.ID))
	_, err = s.AddTask(core.Task{Title: "d", Reminder: true})
	require.NoError(t, err)

	want := s.Tasks()
	require.NoError(t, s.FlushAll(ctx))
	require.NoError(t, s.Close(ctx))

	reloaded := openStore(t, backend)
	assert.Equal(t, want, reloaded.Tasks())
}

func TestStore_WorkScenario(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := openStore(t, backend, store.WithSampleTasks(false))

	work, err := s.AddCategory(core.Category{Name: "Work", Color: "#66B3FF", Icon: "briefcase.fill"})
	require.NoError(t, err)
	_, err = s.AddTask(core.Task{Title: "Ship release", CategoryID: work.ID})
	require.NoError(t, err)
	require.NoError(t, s.FlushAll(ctx))
	require.NoError(t, s.Close(ctx))

	reloaded := openStore(t, backend)
	tasks := reloaded.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship release", tasks[0].Title)
	assert.Equal(t, work.ID, tasks[0].CategoryID)
}

func TestStore_DebounceCoalesces(t *testing.T) {
	backend := memory.New()
	put(t, backend, core.SlotTasks, []core.Task{{ID: "t1", Title: "v0", Priority: core.PriorityNone}})

	s := openStore(t, backend)
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.UpdateTask(core.Task{ID: "t1", Title: fmt.Sprintf("v%d", i)}))
	}
	assert.Equal(t, "v3", s.Tasks()[0].Title)
	assert.Equal(t, 0, backend.Writes("tasks.json"))

	assert.Eventually(t, func() bool { return backend.Writes("tasks.json") == 1 }, time.Second, 2*time.Millisecond)
	time.Sleep(5 * debounce)
	assert.Equal(t, 1, backend.Writes("tasks.json"))

	saved := decode[[]core.Task](t, backend, core.SlotTasks)
	require.Len(t, saved, 1)
	assert.Equal(t, "v3", saved[0].Title)
}

func TestStore_CorruptSlotIsIsolated(t *testing.T) {
	backend := memory.New()
	tasks := []core.Task{{ID: "t1", Title: "kept", CategoryID: "gone", Priority: core.PriorityLow}}
	settings := core.DefaultSettings()
	settings.WeekStartsOnMonday = false
	settings.PinnedHomeSmartLists = []core.SmartList{core.SmartListToday, core.SmartListFlagged}
	put(t, backend, core.SlotTasks, tasks)
	put(t, backend, core.SlotSettings, settings)
	backend.Put("categories.json", []byte(`[{"id": "c1", "name": `))

	s := openStore(t, backend)

	assert.Equal(t, tasks, s.Tasks())
	assert.Equal(t, settings, s.Settings())
	assert.Len(t, s.Categories(), 5)

	assert.Eventually(t, func() bool { return backend.Writes("categories.json") == 1 }, time.Second, 2*time.Millisecond)
	reseeded := decode[[]core.Category](t, backend, core.SlotCategories)
	assert.Equal(t, s.Categories(), reseeded)
	assert.Equal(t, 0, backend.Writes("tasks.json"))
}

// flakyBackend fails reads of one key with a non-decode error.
type flakyBackend struct {
	*memory.Backend
	key string
}

func (b *flakyBackend) Read(ctx context.Context, key string) ([]byte, error) {
	if key == b.key {
		return nil, fmt.Errorf("permission denied")
	}
	return b.Backend.Read(ctx, key)
}

func TestStore_UnreadableSlotIsNotOverwritten(t *testing.T) {
	backend := &flakyBackend{Backend: memory.New(), key: "tasks.json"}
	s := openStore(t, backend, store.WithDebounce(time.Hour))

	assert.Len(t, s.Tasks(), 5)
	state := s.State().(store.StoreState)
	assert.NotContains(t, state.PendingSaves, core.SlotTasks)
	assert.Contains(t, state.PendingSaves, core.SlotCategories)
}

func TestStore_SweepAtLoad(t *testing.T) {
	backend := memory.New()
	old := now.Add(-30*24*time.Hour - time.Second)
	recent := now.Add(-(29*24 + 23) * time.Hour)
	put(t, backend, core.SlotJournalTrashed, []core.JournalEntry{
		{ID: "old", Title: "old", DeletedAt: &old},
		{ID: "recent", Title: "recent", DeletedAt: &recent},
	})

	s := openStore(t, backend)

	trashed := s.TrashedEntries()
	require.Len(t, trashed, 1)
	assert.Equal(t, "recent", trashed[0].ID)

	// The trash is written immediately, not debounced.
	assert.Eventually(t, func() bool { return backend.Writes("deleted_journal.json") == 1 }, time.Second, 2*time.Millisecond)
	assert.Len(t, decode[[]core.JournalEntry](t, backend, core.SlotJournalTrashed), 1)
}

func TestStore_SoftDeleteRestore(t *testing.T) {
	s := openStore(t, memory.New())

	lat, lon := 48.85, 2.35
	place := "Paris"
	original, err := s.AddJournalEntry(core.JournalEntry{
		Title:        "Trip",
		Body:         "Day one",
		Theme:        core.ThemeAurora,
		Images:       [][]byte{{1, 2, 3}},
		LocationName: &place,
		Latitude:     &lat,
		Longitude:    &lon,
	})
	require.NoError(t, err)
	assert.Equal(t, now, original.Date)

	require.True(t, s.DeleteJournalEntry(original.ID))
	assert.Empty(t, s.JournalEntries())
	trashed := s.TrashedEntries()
	require.Len(t, trashed, 1)
	require.NotNil(t, trashed[0].DeletedAt)
	assert.Equal(t, now, *trashed[0].DeletedAt)

	// Trashed entries cannot be edited.
	edit := original
	edit.Title = "edited"
	require.NoError(t, s.UpdateJournalEntry(edit))
	assert.Equal(t, "Trip", s.TrashedEntries()[0].Title)

	require.True(t, s.RestoreJournalEntry(original.ID))
	assert.Empty(t, s.TrashedEntries())
	active := s.JournalEntries()
	require.Len(t, active, 1)
	assert.Equal(t, original, active[0])
}

func TestStore_Trash(t *testing.T) {
	s := openStore(t, memory.New())

	var ids []string
	for i := 0; i < 3; i++ {
		e, err := s.AddJournalEntry(core.JournalEntry{Title: fmt.Sprint(i)})
		require.NoError(t, err)
		ids = append(ids, e.ID)
		require.True(t, s.DeleteJournalEntry(e.ID))
	}

	assert.False(t, s.PermanentlyDeleteJournalEntry("missing"))
	assert.True(t, s.PermanentlyDeleteJournalEntry(ids[0]))
	assert.Len(t, s.TrashedEntries(), 2)

	assert.Equal(t, 0, s.PurgeExpired())
	assert.Equal(t, 2, s.EmptyTrash())
	assert.Empty(t, s.TrashedEntries())
	assert.Equal(t, 0, s.EmptyTrash())
}

func TestStore_SoftDeleteSweepsExpiredEntries(t *testing.T) {
	backend := memory.New()

	var mu sync.Mutex
	clock := now
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(d)
	}
	s := openStore(t, backend, store.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}))

	var (
		evMu   sync.Mutex
		purged []string
	)
	s.Subscribe(func(e core.Event) {
		if e.Type == core.EventPurge && e.Slot == core.SlotJournalTrashed {
			evMu.Lock()
			purged = append(purged, e.ID)
			evMu.Unlock()
		}
	})

	old, err := s.AddJournalEntry(core.JournalEntry{Title: "old"})
	require.NoError(t, err)
	require.True(t, s.DeleteJournalEntry(old.ID))

	advance(31 * 24 * time.Hour)

	recent, err := s.AddJournalEntry(core.JournalEntry{Title: "recent"})
	require.NoError(t, err)
	require.True(t, s.DeleteJournalEntry(recent.ID))

	trashed := s.TrashedEntries()
	require.Len(t, trashed, 1)
	assert.Equal(t, recent.ID, trashed[0].ID)

	evMu.Lock()
	assert.Equal(t, []string{old.ID}, purged)
	evMu.Unlock()

	// The trash slot is written without debounce and ends up without the
	// expired entry.
	assert.Eventually(t, func() bool {
		data, err := backend.Read(context.Background(), core.SlotJournalTrashed.Key(".json"))
		if err != nil {
			return false
		}
		var onDisk []core.JournalEntry
		if json.Unmarshal(data, &onDisk) != nil {
			return false
		}
		return len(onDisk) == 1 && onDisk[0].ID == recent.ID
	}, time.Second, 5*time.Millisecond)
}

func TestStore_PinCap(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := openStore(t, backend)

	// Defaults pin Flagged.
	assert.True(t, s.PinSmartList(core.SmartListToday))
	assert.True(t, s.PinSmartList(core.SmartListToday))
	assert.False(t, s.PinSmartList(core.SmartListAll))
	assert.False(t, s.PinCategory(s.Categories()[0].ID))
	assert.Equal(t, 2, s.Settings().PinnedCount())

	for i := 0; i < 3; i++ {
		lists := []core.SmartList{core.SmartListAll, core.SmartListCompleted, core.SmartListScheduled}
		ids := []string{s.Categories()[i].ID}
		s.UpdateSettings(core.SettingsPatch{PinnedHomeSmartLists: &lists, PinnedHomeCategoryIDs: &ids})
		assert.LessOrEqual(t, s.Settings().PinnedCount(), core.MaxPinned)
	}

	assert.True(t, s.UnpinSmartList(core.SmartListCompleted))
	work := s.Categories()[2].ID
	assert.True(t, s.PinCategory(work))
	assert.False(t, s.PinCategory("missing"))

	want := s.Settings()
	assert.Equal(t, []core.SmartList{core.SmartListAll}, want.PinnedHomeSmartLists)
	assert.Equal(t, []string{work}, want.PinnedHomeCategoryIDs)

	require.NoError(t, s.FlushAll(ctx))
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, want, openStore(t, backend).Settings())
}

func TestStore_OverPinnedSettingsAreNormalizedAtLoad(t *testing.T) {
	backend := memory.New()
	settings := core.DefaultSettings()
	settings.PinnedHomeSmartLists = []core.SmartList{core.SmartListToday, core.SmartListAll, core.SmartListFlagged}
	settings.PinnedHomeCategoryIDs = []string{"c1"}
	put(t, backend, core.SlotSettings, settings)

	s := openStore(t, backend, store.WithDebounce(time.Hour))
	got := s.Settings()
	assert.Equal(t, []core.SmartList{core.SmartListToday, core.SmartListAll}, got.PinnedHomeSmartLists)
	assert.Empty(t, got.PinnedHomeCategoryIDs)
	assert.Contains(t, s.State().(store.StoreState).PendingSaves, core.SlotSettings)
}

func TestStore_Categories(t *testing.T) {
	s := openStore(t, memory.New(), store.WithSampleTasks(false))

	home, err := s.AddCategory(core.Category{Name: "Home", Color: "#112233", Icon: "house"})
	require.NoError(t, err)
	_, err = s.AddCategory(core.Category{Name: "Home", Color: "#445566"})
	require.NoError(t, err, "names are not unique")

	_, err = s.AddCategory(core.Category{ID: home.ID, Name: "Dup", Color: "#000000"})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	_, err = s.AddCategory(core.Category{Name: "Bad", Color: "red"})
	assert.ErrorIs(t, err, core.ErrInvalid)

	home.Name = "House"
	require.NoError(t, s.UpdateCategory(home))
	got, ok := s.Category(home.ID)
	require.True(t, ok)
	assert.Equal(t, "House", got.Name)

	task, err := s.AddTask(core.Task{Title: "Fix sink", CategoryID: home.ID})
	require.NoError(t, err)
	assert.Len(t, s.TasksInCategory(home.ID), 1)

	// Deleting a category leaves its tasks pointing at it.
	assert.True(t, s.DeleteCategory(home.ID))
	_, ok = s.Category(home.ID)
	assert.False(t, ok)
	dangling, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, home.ID, dangling.CategoryID)

	dangling.Title = "Fix sink today"
	assert.NoError(t, s.UpdateTask(dangling), "an existing dangling reference is tolerated")

	_, err = s.AddTask(core.Task{Title: "orphan", CategoryID: home.ID})
	assert.ErrorIs(t, err, core.ErrInvalid, "new dangling references are rejected")
	dangling.CategoryID = "nowhere"
	assert.ErrorIs(t, s.UpdateTask(dangling), core.ErrInvalid)
}

func TestStore_Tasks(t *testing.T) {
	s := openStore(t, memory.New(), store.WithSampleTasks(false))

	today := now.Add(2 * time.Hour)
	later := now.Add(72 * time.Hour)
	a, err := s.AddTask(core.Task{Title: "today", Due: &today})
	require.NoError(t, err)
	assert.Equal(t, core.PriorityNone, a.Priority)
	_, err = s.AddTask(core.Task{Title: "later", Due: &later, Flagged: true})
	require.NoError(t, err)
	done, err := s.AddTask(core.Task{Title: "done"})
	require.NoError(t, err)
	require.True(t, s.ToggleCompletion(done.ID))

	_, err = s.AddTask(core.Task{ID: a.ID, Title: "dup"})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	_, err = s.AddTask(core.Task{Title: "bad", Priority: "Urgent"})
	assert.ErrorIs(t, err, core.ErrInvalid)

	assert.Equal(t, 1, s.Count(core.SmartListToday))
	assert.Equal(t, 2, s.Count(core.SmartListScheduled))
	assert.Equal(t, 2, s.Count(core.SmartListAll))
	assert.Equal(t, 1, s.Count(core.SmartListFlagged))
	assert.Equal(t, "done", s.TasksIn(core.SmartListCompleted)[0].Title)

	// Reads are copies.
	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	*tasks[0].Due = later
	got, _ := s.Task(a.ID)
	assert.Equal(t, "today", got.Title)
	assert.Equal(t, today, *got.Due)

	assert.Equal(t, 1, s.ClearCompleted())
	assert.Equal(t, 0, s.ClearCompleted())
	assert.Len(t, s.Tasks(), 2)
}

func TestStore_UnknownIDsAreNoOps(t *testing.T) {
	backend := memory.New()
	for _, slot := range core.AllSlots {
		backend.Put(slot.Key(".json"), []byte("[]"))
	}
	put(t, backend, core.SlotSettings, core.DefaultSettings())
	s := openStore(t, backend, store.WithDebounce(time.Hour))

	var events []core.Event
	s.Subscribe(func(e core.Event) { events = append(events, e) })

	assert.NoError(t, s.UpdateTask(core.Task{ID: "missing"}))
	assert.False(t, s.DeleteTask("missing"))
	assert.False(t, s.ToggleCompletion("missing"))
	assert.NoError(t, s.UpdateCategory(core.Category{ID: "missing", Name: "x", Color: "#000000"}))
	assert.False(t, s.DeleteCategory("missing"))
	assert.NoError(t, s.UpdateJournalEntry(core.JournalEntry{ID: "missing"}))
	assert.False(t, s.DeleteJournalEntry("missing"))
	assert.False(t, s.RestoreJournalEntry("missing"))
	assert.False(t, s.UnpinCategory("missing"))
	assert.False(t, s.UnpinSmartList(core.SmartListCompleted))
	s.UpdateSettings(core.SettingsPatch{})

	assert.Empty(t, events)
	assert.Empty(t, s.State().(store.StoreState).PendingSaves)
}

func TestStore_EventsPrecedeSave(t *testing.T) {
	backend := memory.New()
	s := openStore(t, backend, store.WithDebounce(time.Hour), store.WithSampleTasks(false))

	var seen []core.Event
	var titles []string
	cancel := s.Subscribe(func(e core.Event) {
		seen = append(seen, e)
		if e.Slot == core.SlotTasks {
			if task, ok := s.Task(e.ID); ok {
				titles = append(titles, task.Title)
			}
		}
	})

	task, err := s.AddTask(core.Task{Title: "observed"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, core.EventCreate, seen[0].Type)
	assert.Equal(t, task.ID, seen[0].ID)
	assert.Equal(t, []string{"observed"}, titles)
	assert.Contains(t, s.State().(store.StoreState).PendingSaves, core.SlotTasks)

	e, err := s.AddJournalEntry(core.JournalEntry{Title: "j"})
	require.NoError(t, err)
	require.True(t, s.DeleteJournalEntry(e.ID))
	assert.Equal(t, core.EventDelete, seen[len(seen)-1].Type)
	assert.Equal(t, core.SlotJournalTrashed, seen[len(seen)-1].Slot)

	cancel()
	s.ToggleCompletion(task.ID)
	assert.Len(t, seen, 4)
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := store.New(codec.New(backend, nil), store.WithDebounce(debounce))

	assert.Equal(t, store.PhaseUninitialized, s.Phase())
	_, err := s.AddTask(core.Task{Title: "early"})
	assert.ErrorIs(t, err, core.ErrNotReady)
	assert.ErrorIs(t, s.FlushAll(ctx), core.ErrNotReady)

	require.NoError(t, s.Load(ctx))
	assert.Error(t, s.Load(ctx))

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, store.PhaseClosed, s.Phase())
	assert.NoError(t, s.Close(ctx))
	assert.ErrorIs(t, s.FlushAll(ctx), core.ErrNotReady)

	_, err = s.AddTask(core.Task{Title: "late"})
	assert.ErrorIs(t, err, core.ErrNotReady)
	assert.False(t, s.PinSmartList(core.SmartListAll))

	// Close flushed every slot.
	for _, slot := range core.AllSlots {
		_, err := backend.Read(ctx, slot.Key(".json"))
		assert.NoError(t, err, slot)
	}
}

func TestStore_WriteFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := openStore(t, backend, store.WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, s.FlushAll(ctx))

	backend.FailWrites(fmt.Errorf("disk full"))
	task, err := s.AddTask(core.Task{Title: "unsaved"})
	require.NoError(t, err)
	_, ok := s.Task(task.ID)
	assert.True(t, ok)

	err = s.FlushAll(ctx)
	assert.ErrorIs(t, err, core.ErrWrite)

	backend.FailWrites(nil)
	assert.NoError(t, s.FlushAll(ctx))
}

func TestStore_YAMLBackend(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	c := codec.New(backend, codec.NewYAMLSerializer())

	s := store.New(c, store.WithDebounce(debounce))
	require.NoError(t, s.Load(ctx))
	want := s.Tasks()
	require.NoError(t, s.Close(ctx))

	_, err := backend.Read(ctx, "tasks.yaml")
	require.NoError(t, err)

	reloaded := store.New(codec.New(backend, codec.NewYAMLSerializer()))
	require.NoError(t, reloaded.Load(ctx))
	defer reloaded.Close(ctx)
	assert.Equal(t, len(want), len(reloaded.Tasks()))
	assert.Equal(t, want[0].ID, reloaded.Tasks()[0].ID)
}
