package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 12,
		"documentId": "abc123",
		"name": " Jazz in the Park ",
		"event_type": "concert",
		"start_time": "2025-07-01T19:00:00.000Z",
		"end_time": "2025-07-01T22:00:00Z",
		"description": [{"type":"paragraph","children":[{"type":"text","text":"Open-air jazz."}]}],
		"event_location": {
			"id": 3,
			"name": "Civic Park",
			"street": "1 Park Ave",
			"city": "Springfield",
			"postal_code": "12345",
			"country": "US",
			"capacity": 500,
			"website": "https://civicpark.example.com"
		},
		"organizers": [
			{"id": 7, "name": "City Arts", "contact_email": "arts@example.com"},
			{"id": 9, "name": "Parks Dept"}
		],
		"accessibility_features": [
			{"id": 1, "name": "Wheelchair access", "description": "Step-free entry", "icon": "/uploads/wheelchair.svg"}
		]
	}`)

	e, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(12), e.ID)
	assert.Equal(t, "abc123", e.DocumentID)
	assert.Equal(t, "Jazz in the Park", e.Name)
	assert.Equal(t, "concert", e.EventType)
	assert.Equal(t, time.Date(2025, 7, 1, 19, 0, 0, 0, time.UTC), e.StartTime)
	assert.Equal(t, "Open-air jazz.", e.Description.Plain())

	require.NotNil(t, e.Location)
	assert.Equal(t, "Civic Park", e.Location.Name)
	assert.Equal(t, 500, e.Location.Capacity)
	assert.Equal(t, "1 Park Ave, Springfield, 12345, US", e.Location.Address())

	require.Len(t, e.Organizers, 2)
	assert.Equal(t, "City Arts", e.Organizers[0].Name)
	assert.Equal(t, "Parks Dept", e.Organizers[1].Name)

	require.Len(t, e.AccessibilityFeatures, 1)
	assert.Equal(t, "Wheelchair access", e.AccessibilityFeatures[0].Name)
	assert.Equal(t, "Step-free entry", e.AccessibilityFeatures[0].Description.Plain())
	assert.Equal(t, "/uploads/wheelchair.svg", e.AccessibilityFeatures[0].Icon.URL)
}

func TestParse_OrganizerShapes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNames []string
	}{
		{
			name:      "singular organizer wrapped in slice",
			raw:       `{"id":1,"name":"e","organizer":{"id":4,"name":"Solo Org"}}`,
			wantNames: []string{"Solo Org"},
		},
		{
			name:      "plural organizers preserved in order",
			raw:       `{"id":1,"name":"e","organizers":[{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"C"}]}`,
			wantNames: []string{"A", "B", "C"},
		},
		{
			name:      "plural field holding single object",
			raw:       `{"id":1,"name":"e","organizers":{"id":4,"name":"Solo Org"}}`,
			wantNames: []string{"Solo Org"},
		},
		{
			name:      "absent organizers yields empty slice",
			raw:       `{"id":1,"name":"e"}`,
			wantNames: []string{},
		},
		{
			name:      "null organizer yields empty slice",
			raw:       `{"id":1,"name":"e","organizer":null}`,
			wantNames: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Parse(json.RawMessage(tc.raw))
			require.NoError(t, err)
			require.NotNil(t, e.Organizers)
			names := make([]string, 0, len(e.Organizers))
			for _, o := range e.Organizers {
				names = append(names, o.Name)
			}
			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func TestParse_LocationFieldRename(t *testing.T) {
	legacy, err := Parse(json.RawMessage(`{"id":1,"name":"e","event_location":{"id":2,"name":"Old Hall"}}`))
	require.NoError(t, err)
	current, err := Parse(json.RawMessage(`{"id":1,"name":"e","location":{"id":2,"name":"Old Hall"}}`))
	require.NoError(t, err)

	require.NotNil(t, legacy.Location)
	require.NotNil(t, current.Location)
	assert.Equal(t, legacy.Location.Name, current.Location.Name)
}

func TestParse_LocationPrefersLegacyFieldWhenBothPresent(t *testing.T) {
	e, err := Parse(json.RawMessage(`{"id":1,"name":"e",
		"event_location":{"id":2,"name":"From event_location"},
		"location":{"id":3,"name":"From location"}}`))
	require.NoError(t, err)
	require.NotNil(t, e.Location)
	assert.Equal(t, "From event_location", e.Location.Name)
}

func TestParse_DescriptionShapesRenderIdentically(t *testing.T) {
	bare, err := Parse(json.RawMessage(`{"id":1,"name":"e","description":"A night of improv."}`))
	require.NoError(t, err)
	structured, err := Parse(json.RawMessage(`{"id":1,"name":"e","description":[{"children":[{"text":"A night of improv."}]}]}`))
	require.NoError(t, err)

	assert.Equal(t, structured.Description.Plain(), bare.Description.Plain())
	assert.Equal(t, "A night of improv.", bare.Description.Plain())
}

func TestParse_MissingIdentity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
	}{
		{"missing id", `{"name":"e"}`, "id"},
		{"missing name", `{"id":5}`, "name"},
		{"blank name", `{"id":5,"name":"   "}`, "name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tc.raw))
			require.Error(t, err)
			var identityErr IdentityError
			require.ErrorAs(t, err, &identityErr)
			assert.Equal(t, "event", identityErr.Entity)
			assert.Equal(t, tc.wantField, identityErr.Field)
		})
	}
}

func TestParse_MalformedOptionalFieldsDegrade(t *testing.T) {
	e, err := Parse(json.RawMessage(`{
		"id": 1,
		"name": "e",
		"start_time": "not a timestamp",
		"description": {"unexpected":"object"},
		"event_location": "not an object",
		"organizers": "not a list",
		"accessibility_features": {"also":"wrong"}
	}`))
	require.NoError(t, err)

	assert.True(t, e.StartTime.IsZero())
	assert.Equal(t, "", e.Description.Plain())
	assert.Nil(t, e.Location)
	assert.Empty(t, e.Organizers)
	assert.NotNil(t, e.Organizers)
	assert.Empty(t, e.AccessibilityFeatures)
}

func TestParseList(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":1,"name":"First"},
		{"id":2,"name":"Second"}
	]`)
	list, err := ParseList(raw)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Second", list[1].Name)
}

func TestParseList_InvalidElement(t *testing.T) {
	raw := json.RawMessage(`[{"id":1,"name":"Good"},{"id":2}]`)
	_, err := ParseList(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 1")
}

func TestLocation_FlexibleFields(t *testing.T) {
	var l Location
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 2,
		"name": "Annex",
		"capacity": "120",
		"address": [{"children":[{"text":"12 Side St, Springfield"}]}],
		"geo": {"latitude": 43.65, "longitude": -79.38}
	}`), &l))

	assert.Equal(t, 120, l.Capacity)
	assert.Equal(t, "12 Side St, Springfield", l.Address())
	assert.InDelta(t, 43.65, l.Latitude, 1e-9)
	assert.InDelta(t, -79.38, l.Longitude, 1e-9)
}

func TestOrganizer_PhoneFieldVariants(t *testing.T) {
	var a, b Organizer
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"A","contact_phone":"555-0100"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"A","contact_Phone":"555-0100"}`), &b))
	assert.Equal(t, a.ContactPhone, b.ContactPhone)
}

func TestFeature_IconShapes(t *testing.T) {
	var withString, withObject Feature
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Hearing loop","icon":"/uploads/loop.svg"}`), &withString))
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Hearing loop","icon":{"id":4,"url":"/uploads/loop.svg"}}`), &withObject))

	assert.Equal(t, withString.Icon.URL, withObject.Icon.URL)
}
