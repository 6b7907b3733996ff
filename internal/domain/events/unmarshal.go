package events

import (
	"encoding/json"
	"strconv"
	"time"
)

// UnmarshalJSON implements custom JSON unmarshaling for Event to handle the
// field renames and shape changes the content schema has gone through:
//   - organizer as single object OR organizers as array
//   - event_location OR location for the venue relation
//   - description as rich-text array OR plain string
//   - start_time/end_time in RFC 3339 with or without sub-second precision
//
// Missing or malformed optional fields degrade to their zero values; decoding
// itself never fails on them. Identity requirements are enforced separately
// by Parse.
func (e *Event) UnmarshalJSON(data []byte) error {
	type rawEvent struct {
		ID                    int64           `json:"id"`
		DocumentID            string          `json:"documentId"`
		Name                  string          `json:"name"`
		EventType             string          `json:"event_type"`
		StartTime             string          `json:"start_time"`
		EndTime               string          `json:"end_time"`
		Description           json.RawMessage `json:"description"`
		Location              json.RawMessage `json:"location"`
		EventLocation         json.RawMessage `json:"event_location"`
		Organizer             json.RawMessage `json:"organizer"`
		Organizers            json.RawMessage `json:"organizers"`
		AccessibilityFeatures json.RawMessage `json:"accessibility_features"`
	}

	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.ID = raw.ID
	e.DocumentID = raw.DocumentID
	e.Name = raw.Name
	e.EventType = raw.EventType
	e.StartTime = parseTime(raw.StartTime)
	e.EndTime = parseTime(raw.EndTime)
	_ = e.Description.UnmarshalJSON(orNull(raw.Description))

	// The venue relation was renamed from event_location to location;
	// records exist with either.
	e.Location = unmarshalVenue(raw.EventLocation)
	if e.Location == nil {
		e.Location = unmarshalVenue(raw.Location)
	}

	e.Organizers = unmarshalOrganizers(raw.Organizer, raw.Organizers)

	e.AccessibilityFeatures = nil
	if len(raw.AccessibilityFeatures) > 0 {
		var features []Feature
		if err := json.Unmarshal(raw.AccessibilityFeatures, &features); err == nil {
			e.AccessibilityFeatures = features
		}
	}

	return nil
}

// unmarshalOrganizers reconciles the singular organizer field with the plural
// organizers field. The result is always non-nil; order and count of a plural
// list are preserved.
func unmarshalOrganizers(singular, plural json.RawMessage) []Organizer {
	if isPresent(plural) {
		var list []Organizer
		if err := json.Unmarshal(plural, &list); err == nil {
			if list == nil {
				list = []Organizer{}
			}
			return list
		}
		// Some revisions returned the plural field holding a single object.
		var one Organizer
		if err := json.Unmarshal(plural, &one); err == nil {
			return []Organizer{one}
		}
	}
	if isPresent(singular) {
		var one Organizer
		if err := json.Unmarshal(singular, &one); err == nil {
			return []Organizer{one}
		}
	}
	return []Organizer{}
}

func unmarshalVenue(data json.RawMessage) *Location {
	if !isPresent(data) {
		return nil
	}
	var loc Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil
	}
	return &loc
}

// UnmarshalJSON implements custom JSON unmarshaling for Location to handle
// both structured address parts and the legacy single rich-text address, a
// capacity that may be a number or a numeric string, and coordinates at top
// level or nested under geo.
func (l *Location) UnmarshalJSON(data []byte) error {
	type rawLocation struct {
		ID         int64           `json:"id"`
		Name       string          `json:"name"`
		Street     string          `json:"street"`
		City       string          `json:"city"`
		State      string          `json:"state"`
		PostalCode string          `json:"postal_code"`
		Country    string          `json:"country"`
		Address    json.RawMessage `json:"address"`
		Capacity   json.RawMessage `json:"capacity"`
		Website    string          `json:"website"`
		Phone      string          `json:"phone"`
		Email      string          `json:"email"`
		Latitude   float64         `json:"latitude"`
		Longitude  float64         `json:"longitude"`
		Geo        json.RawMessage `json:"geo"`
	}

	var raw rawLocation
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.ID = raw.ID
	l.Name = raw.Name
	l.Street = raw.Street
	l.City = raw.City
	l.State = raw.State
	l.PostalCode = raw.PostalCode
	l.Country = raw.Country
	l.Website = raw.Website
	l.Phone = raw.Phone
	l.Email = raw.Email
	l.Latitude = raw.Latitude
	l.Longitude = raw.Longitude

	_ = l.AddressDoc.UnmarshalJSON(orNull(raw.Address))
	l.Capacity = unmarshalFlexibleInt(raw.Capacity)

	if len(raw.Geo) > 0 {
		var geo struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		if err := json.Unmarshal(raw.Geo, &geo); err == nil {
			if geo.Latitude != 0 {
				l.Latitude = geo.Latitude
			}
			if geo.Longitude != 0 {
				l.Longitude = geo.Longitude
			}
		}
	}

	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Organizer. The phone
// field has appeared both as contact_phone and, in one schema revision, as
// contact_Phone.
func (o *Organizer) UnmarshalJSON(data []byte) error {
	type rawOrganizer struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		Type          string `json:"type"`
		ContactEmail  string `json:"contact_email"`
		ContactPhone  string `json:"contact_phone"`
		ContactPhone2 string `json:"contact_Phone"`
		Website       string `json:"website"`
	}

	var raw rawOrganizer
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.ID = raw.ID
	o.Name = raw.Name
	o.Type = raw.Type
	o.ContactEmail = raw.ContactEmail
	o.ContactPhone = raw.ContactPhone
	if o.ContactPhone == "" {
		o.ContactPhone = raw.ContactPhone2
	}
	o.Website = raw.Website
	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Feature to handle the
// icon field as a bare string or a media object.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type rawFeature struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		Description json.RawMessage `json:"description"`
		Icon        json.RawMessage `json:"icon"`
	}

	var raw rawFeature
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.ID = raw.ID
	f.Name = raw.Name
	_ = f.Description.UnmarshalJSON(orNull(raw.Description))
	if isPresent(raw.Icon) {
		_ = f.Icon.UnmarshalJSON(raw.Icon)
	}
	return nil
}

// unmarshalFlexibleInt handles a count that may be a JSON number or a numeric
// string. Anything else yields zero.
func unmarshalFlexibleInt(data json.RawMessage) int {
	if !isPresent(data) {
		return 0
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed
		}
	}
	return 0
}

// parseTime accepts RFC 3339 timestamps with or without sub-second precision
// and the date-only form. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isPresent(data json.RawMessage) bool {
	return len(data) > 0 && string(data) != "null"
}

func orNull(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	return data
}
