package core

import "time"

// JournalTheme selects the visual theme of an entry.
type JournalTheme string

const (
	ThemeDefault  JournalTheme = "Default"
	ThemeOldPaper JournalTheme = "Old Paper"
	ThemeMidnight JournalTheme = "Midnight"
	ThemeAurora   JournalTheme = "Aurora"
)

// JournalEntry is a dated journal page. It is active while DeletedAt is nil
// and trashed otherwise.
type JournalEntry struct {
	ID           string       `json:"id" validate:"required"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Date         time.Time    `json:"date"`
	Theme        JournalTheme `json:"theme" validate:"omitempty,oneof=Default 'Old Paper' Midnight Aurora"`
	Images       [][]byte     `json:"images"`
	DeletedAt    *time.Time   `json:"deletedAt,omitempty"`
	LocationName *string      `json:"locationName,omitempty"`
	Latitude     *float64     `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64     `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// IsTrashed reports whether the entry has been soft-deleted.
func (e JournalEntry) IsTrashed() bool {
	return e.DeletedAt != nil
}

// Clone returns a deep copy of the entry, images included.
func (e JournalEntry) Clone() JournalEntry {
	if e.DeletedAt != nil {
		at := *e.DeletedAt
		e.DeletedAt = &at
	}
	if e.LocationName != nil {
		name := *e.LocationName
		e.LocationName = &name
	}
	if e.Latitude != nil {
		lat := *e.Latitude
		e.Latitude = &lat
	}
	if e.Longitude != nil {
		lon := *e.Longitude
		e.Longitude = &lon
	}
	if e.Images != nil {
		images := make([][]byte, len(e.Images))
		for i, img := range e.Images {
			images[i] = append([]byte(nil), img...)
		}
		e.Images = images
	}
	return e
}
