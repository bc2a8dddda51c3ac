package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceFile(t *testing.T) {
	t.Run("First Save Of A Slot", func(t *testing.T) {
		dir := t.TempDir()
		slotFile := filepath.Join(dir, "tasks.json")

		require.NoError(t, replaceFile(slotFile, []byte(`[]`), 0o600))

		got, err := os.ReadFile(slotFile)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("Later Save Replaces Whole Slot", func(t *testing.T) {
		dir := t.TempDir()
		slotFile := filepath.Join(dir, "settings.json")
		require.NoError(t, os.WriteFile(slotFile, []byte(`{"weekStartsOnMonday": true, "padding": "xxxxxxxx"}`), 0o600))

		require.NoError(t, replaceFile(slotFile, []byte(`{}`), 0o600))

		got, err := os.ReadFile(slotFile)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(got), "shorter content must not leave a tail of the old file")
	})

	t.Run("Slot File Keeps Private Mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permission bits")
		}
		dir := t.TempDir()
		slotFile := filepath.Join(dir, "journal.json")

		require.NoError(t, replaceFile(slotFile, []byte(`[]`), 0o600))

		info, err := os.Stat(slotFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Missing Data Directory", func(t *testing.T) {
		slotFile := filepath.Join(t.TempDir(), "gone", "tasks.json")

		assert.Error(t, replaceFile(slotFile, []byte(`[]`), 0o600))
		_, err := os.Stat(filepath.Dir(slotFile))
		assert.True(t, os.IsNotExist(err), "the data directory is created by Initialize only")
	})

	t.Run("No Staging Files Left Behind", func(t *testing.T) {
		dir := t.TempDir()
		slotFile := filepath.Join(dir, "deleted_journal.json")

		for i := 0; i < 5; i++ {
			require.NoError(t, replaceFile(slotFile, []byte(`[]`), 0o600))
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "deleted_journal.json", entries[0].Name())
	})
}

func TestIsTempFile(t *testing.T) {
	assert.True(t, isTempFile(filepath.Join("data", TempFilePrefix+"123")))
	assert.False(t, isTempFile("tasks.json"))
	assert.False(t, isTempFile(filepath.Join(TempFilePrefix+"dir", "tasks.json")))
}
