// Package users normalizes CMS user records. The accessibility sub-record has
// shipped in three incompatible shapes over the life of the content schema: a
// nested disability_card component, flattened top-level fields, and a separate
// linked app-user entity. The adapter reconciles all three into one view.
package users

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/inclusivevents/client/internal/media"
)

// User is the normalized view of an authenticated account.
type User struct {
	ID        int64
	Username  string
	Email     string
	Role      Role
	CreatedAt time.Time

	// Card is the normalized accessibility card, regardless of which
	// schema shape carried it. Zero when the account has none on file.
	Card DisabilityCard
}

// Role is the users-permissions role attached to an account.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisabilityCard is the single normalized shape for accessibility info.
type DisabilityCard struct {
	// ComponentID is the CMS component id, needed when patching a nested
	// component in place. Zero for the flattened and linked shapes.
	ComponentID int64

	Status           string
	IssuingAuthority string
	ExpiryDate       string
	File             media.File
}

// IsZero reports whether no accessibility information is on file.
func (c DisabilityCard) IsZero() bool {
	return c.Status == "" && c.IssuingAuthority == "" && c.ExpiryDate == "" && c.File.IsZero()
}

// UnmarshalJSON implements custom JSON unmarshaling for User, accepting both
// the nested disability_card component and the flattened top-level card
// fields. The linked app-user shape is merged separately via MergeAppProfile
// because it arrives from its own endpoint.
func (u *User) UnmarshalJSON(data []byte) error {
	type rawUser struct {
		ID        int64           `json:"id"`
		Username  string          `json:"username"`
		Email     string          `json:"email"`
		Role      json.RawMessage `json:"role"`
		CreatedAt string          `json:"createdAt"`

		// Nested component shape.
		DisabilityCard json.RawMessage `json:"disability_card"`

		// Flattened shape.
		FlatStatus    string          `json:"disability_card_status"`
		FlatAuthority string          `json:"disability_issuing_authority"`
		FlatExpiry    string          `json:"disability_card_expiry"`
		FlatFile      json.RawMessage `json:"disability_card_file"`
	}

	var raw rawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = raw.ID
	u.Username = raw.Username
	u.Email = raw.Email
	u.CreatedAt = parseTime(raw.CreatedAt)

	if len(raw.Role) > 0 {
		// Role arrives as an object; tolerate a bare role name string.
		var role Role
		if err := json.Unmarshal(raw.Role, &role); err != nil {
			var name string
			if err := json.Unmarshal(raw.Role, &name); err == nil {
				role = Role{Name: name}
			}
		}
		u.Role = role
	}

	u.Card = unmarshalCard(raw.DisabilityCard)
	if u.Card.IsZero() {
		u.Card = DisabilityCard{
			Status:           raw.FlatStatus,
			IssuingAuthority: raw.FlatAuthority,
			ExpiryDate:       raw.FlatExpiry,
		}
		if len(raw.FlatFile) > 0 {
			_ = u.Card.File.UnmarshalJSON(raw.FlatFile)
		}
	}

	return nil
}

// unmarshalCard decodes the nested disability_card component. Malformed or
// null input yields a zero card.
func unmarshalCard(data json.RawMessage) DisabilityCard {
	if len(data) == 0 || string(data) == "null" {
		return DisabilityCard{}
	}

	var raw struct {
		ID         int64           `json:"id"`
		CardStatus string          `json:"card_status"`
		Issuing    string          `json:"issuing_card"`
		ExpiryDate string          `json:"expiry_date"`
		File       json.RawMessage `json:"file"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DisabilityCard{}
	}

	card := DisabilityCard{
		ComponentID:      raw.ID,
		Status:           raw.CardStatus,
		IssuingAuthority: raw.Issuing,
		ExpiryDate:       raw.ExpiryDate,
	}
	if len(raw.File) > 0 {
		_ = card.File.UnmarshalJSON(raw.File)
	}
	return card
}

// AppProfile is the separate linked entity that carried accessibility info in
// the oldest schema revision, fetched from its own collection and joined to
// the account by the caller.
type AppProfile struct {
	ID         int64
	FirstName  string
	LastName   string
	Birthday   string
	Language   string
	Status     string
	Issuing    string
	Expiry     string
	CardNumber string
	File       media.File
}

func (p *AppProfile) UnmarshalJSON(data []byte) error {
	type rawProfile struct {
		ID        int64           `json:"id"`
		FirstName string          `json:"first_name"`
		LastName  string          `json:"last_name"`
		Birthday  string          `json:"birthday"`
		Language  string          `json:"prim_language"`
		Status    string          `json:"status"`
		Issuing   string          `json:"issuing_card"`
		Expiry    string          `json:"expiry"`
		Number    string          `json:"number"`
		Card      json.RawMessage `json:"disability_card"`
	}

	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.FirstName = raw.FirstName
	p.LastName = raw.LastName
	p.Birthday = raw.Birthday
	p.Language = raw.Language
	p.Status = raw.Status
	p.Issuing = raw.Issuing
	p.Expiry = raw.Expiry
	p.CardNumber = raw.Number
	if len(raw.Card) > 0 {
		_ = p.File.UnmarshalJSON(raw.Card)
	}
	return nil
}

// MergeAppProfile fills the user's card from a linked app profile without
// overwriting values already supplied by a newer shape.
func MergeAppProfile(u User, p AppProfile) User {
	if u.Card.Status == "" {
		u.Card.Status = p.Status
	}
	if u.Card.IssuingAuthority == "" {
		u.Card.IssuingAuthority = p.Issuing
	}
	if u.Card.ExpiryDate == "" {
		u.Card.ExpiryDate = p.Expiry
	}
	if u.Card.File.IsZero() {
		u.Card.File = p.File
	}
	return u
}

// Normalize trims string values on a decoded user.
func Normalize(u User) User {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.Role.Name = strings.TrimSpace(u.Role.Name)
	u.Card.Status = strings.TrimSpace(u.Card.Status)
	u.Card.IssuingAuthority = strings.TrimSpace(u.Card.IssuingAuthority)
	u.Card.ExpiryDate = strings.TrimSpace(u.Card.ExpiryDate)
	return u
}

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
