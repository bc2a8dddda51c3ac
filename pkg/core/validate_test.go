package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aurora/pkg/core"
)

func TestValidate_Category(t *testing.T) {
	valid := core.Category{ID: "c1", Name: "Work", Color: "#66B3FF", Icon: "briefcase.fill"}
	require.NoError(t, core.Validate(valid))

	t.Run("Rejects Empty Name", func(t *testing.T) {
		c := valid
		c.Name = ""
		assert.ErrorIs(t, core.Validate(c), core.ErrInvalid)
	})

	t.Run("Rejects Short Hex", func(t *testing.T) {
		c := valid
		c.Color = "#FFF"
		assert.ErrorIs(t, core.Validate(c), core.ErrInvalid)
	})

	t.Run("Rejects Non Hex", func(t *testing.T) {
		c := valid
		c.Color = "#GGGGGG"
		assert.ErrorIs(t, core.Validate(c), core.ErrInvalid)
	})
}

func TestValidate_Task(t *testing.T) {
	require.NoError(t, core.Validate(core.Task{ID: "t1", Priority: core.PriorityHigh}))
	require.NoError(t, core.Validate(core.Task{ID: "t1"}))
	assert.ErrorIs(t, core.Validate(core.Task{ID: "t1", Priority: "Urgent"}), core.ErrInvalid)
	assert.ErrorIs(t, core.Validate(core.Task{}), core.ErrInvalid)
}

func TestValidate_JournalEntry(t *testing.T) {
	lat := 48.85
	require.NoError(t, core.Validate(core.JournalEntry{ID: "j1", Theme: core.ThemeOldPaper, Latitude: &lat}))

	bad := 123.0
	assert.ErrorIs(t, core.Validate(core.JournalEntry{ID: "j1", Latitude: &bad}), core.ErrInvalid)
	assert.ErrorIs(t, core.Validate(core.JournalEntry{ID: "j1", Theme: "Neon"}), core.ErrInvalid)
}

func TestSlotFromKey(t *testing.T) {
	for _, s := range core.AllSlots {
		got, ok := core.SlotFromKey("/data/" + s.Key(".json"))
		require.True(t, ok, s)
		assert.Equal(t, s, got)
	}
	_, ok := core.SlotFromKey("notes.json")
	assert.False(t, ok)
}

func TestErrors_Taxonomy(t *testing.T) {
	var err error = &core.DecodeError{Slot: core.SlotTasks, Err: assert.AnError}
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, core.ErrWrite)

	err = &core.WriteError{Slot: core.SlotSettings, Err: assert.AnError}
	assert.ErrorIs(t, err, core.ErrWrite)
	assert.Contains(t, err.Error(), "settings")
}
