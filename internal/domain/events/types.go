// Package events defines the stable event view model and the adapter that
// produces it from raw CMS records. The backing content schema has been
// through several revisions (singular organizer vs. plural organizers,
// event_location vs. location, rich-text vs. plain-string descriptions), and
// the adapter accepts every shape that has appeared in production data.
package events

import (
	"time"

	"github.com/inclusivevents/client/internal/media"
	"github.com/inclusivevents/client/internal/richtext"
)

// Event is the normalized view of a CMS event record.
type Event struct {
	ID          int64
	DocumentID  string
	Name        string
	EventType   string
	StartTime   time.Time
	EndTime     time.Time
	Description richtext.Doc

	// Location is nil when the record has no venue attached.
	Location *Location

	// Organizers is never nil; singular-organizer records are wrapped in
	// a one-element slice.
	Organizers []Organizer

	AccessibilityFeatures []Feature
}

// Location is the normalized view of a venue record. Newer records carry
// structured address parts; legacy records carry a single rich-text address
// document.
type Location struct {
	ID         int64
	Name       string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string

	// AddressDoc holds the legacy rich-text address when structured parts
	// are absent.
	AddressDoc richtext.Doc

	Capacity  int
	Website   string
	Phone     string
	Email     string
	Latitude  float64
	Longitude float64
}

// Address returns a display string for the venue address, preferring the
// structured parts and falling back to the legacy rich-text document.
func (l Location) Address() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{l.Street, l.City, l.State, l.PostalCode, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return joinParts(parts)
	}
	return l.AddressDoc.Plain()
}

func joinParts(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

// Organizer is the normalized view of an organizer record.
type Organizer struct {
	ID           int64
	Name         string
	Type         string
	ContactEmail string
	ContactPhone string
	Website      string
}

// Feature is an accessibility feature attached to an event.
type Feature struct {
	ID          int64
	Name        string
	Description richtext.Doc
	Icon        media.File
}
