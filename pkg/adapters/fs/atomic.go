package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempFilePrefix marks the staging file of a slot write. The watcher skips
// files carrying it.
const TempFilePrefix = "aurora-tmp-"

func isTempFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), TempFilePrefix)
}

// replaceFile stages data next to path and renames it into place. A crash
// at any point leaves either the previous slot file or the new one, never a
// truncated mix. The directory is synced after the rename so the new entry
// itself is durable.
func replaceFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)

	staged, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filepath.Base(path), err)
	}
	stagedName := staged.Name()
	defer func() {
		if err != nil {
			_ = staged.Close()
			_ = os.Remove(stagedName)
		}
	}()

	if err = staged.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set mode on staged file: %w", err)
	}
	if _, err = staged.Write(data); err != nil {
		return fmt.Errorf("failed to write staged file: %w", err)
	}
	if err = staged.Sync(); err != nil {
		return fmt.Errorf("failed to sync staged file: %w", err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("failed to close staged file: %w", err)
	}
	if err = os.Rename(stagedName, path); err != nil {
		return fmt.Errorf("failed to move staged file to %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes a directory entry change. Platforms that cannot open a
// directory for syncing (Windows) are skipped.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
