// Package retention decides which trashed journal entries have outlived the
// recovery window. It is pure: callers supply the clock and act on the result.
package retention

import (
	"time"

	"github.com/aretw0/aurora/pkg/core"
)

// Window is how long a trashed entry stays recoverable.
const Window = 30 * 24 * time.Hour

// Cutoff returns the instant before which trashed entries expire.
func Cutoff(now time.Time) time.Time {
	return now.Add(-Window)
}

// IsExpired reports whether e was deleted strictly before Cutoff(now).
// Active entries never expire.
func IsExpired(e core.JournalEntry, now time.Time) bool {
	return e.DeletedAt != nil && e.DeletedAt.Before(Cutoff(now))
}

// Expired returns the entries of trashed that should be purged.
func Expired(trashed []core.JournalEntry, now time.Time) []core.JournalEntry {
	_, expired := Partition(trashed, now)
	return expired
}

// Partition splits trashed into the entries to keep and the expired ones,
// preserving order in both.
func Partition(trashed []core.JournalEntry, now time.Time) (keep, expired []core.JournalEntry) {
	keep = make([]core.JournalEntry, 0, len(trashed))
	for _, e := range trashed {
		if IsExpired(e, now) {
			expired = append(expired, e)
			continue
		}
		keep = append(keep, e)
	}
	return keep, expired
}
