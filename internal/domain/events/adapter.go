package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes a single raw CMS event record into the normalized view model
// and enforces the identity requirement: the record must carry an id and a
// name. Everything else is optional.
func Parse(raw json.RawMessage) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	e = Normalize(e)
	if err := identityCheck("event", e.ID, e.Name); err != nil {
		return Event{}, err
	}
	return e, nil
}

// ParseList decodes a raw CMS event collection. Each element must satisfy the
// identity requirement; the error names the offending index.
func ParseList(raw json.RawMessage) ([]Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode event list: %w", err)
	}
	list := make([]Event, 0, len(items))
	for i, item := range items {
		e, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		list = append(list, e)
	}
	return list, nil
}

// Normalize trims string values for consistent display and comparison.
func Normalize(e Event) Event {
	e.Name = strings.TrimSpace(e.Name)
	e.EventType = strings.TrimSpace(e.EventType)
	e.DocumentID = strings.TrimSpace(e.DocumentID)

	if e.Location != nil {
		loc := normalizeLocation(*e.Location)
		e.Location = &loc
	}
	for i, org := range e.Organizers {
		e.Organizers[i] = normalizeOrganizer(org)
	}
	for i, f := range e.AccessibilityFeatures {
		f.Name = strings.TrimSpace(f.Name)
		e.AccessibilityFeatures[i] = f
	}
	return e
}

func normalizeLocation(l Location) Location {
	l.Name = strings.TrimSpace(l.Name)
	l.Street = strings.TrimSpace(l.Street)
	l.City = strings.TrimSpace(l.City)
	l.State = strings.TrimSpace(l.State)
	l.PostalCode = strings.TrimSpace(l.PostalCode)
	l.Country = strings.TrimSpace(l.Country)
	l.Website = strings.TrimSpace(l.Website)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Email = strings.TrimSpace(l.Email)
	return l
}

func normalizeOrganizer(o Organizer) Organizer {
	o.Name = strings.TrimSpace(o.Name)
	o.Type = strings.TrimSpace(o.Type)
	o.ContactEmail = strings.TrimSpace(o.ContactEmail)
	o.ContactPhone = strings.TrimSpace(o.ContactPhone)
	o.Website = strings.TrimSpace(o.Website)
	return o
}
