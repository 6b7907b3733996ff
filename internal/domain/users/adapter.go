package users

import (
	"encoding/json"
	"fmt"
)

// IdentityError indicates a user record missing one of the minimum identity
// fields (id, username).
type IdentityError struct {
	Field string
}

func (e IdentityError) Error() string {
	return fmt.Sprintf("user record missing required field %q", e.Field)
}

// Parse decodes a raw CMS user record into the normalized view model and
// enforces the identity requirement.
func Parse(raw json.RawMessage) (User, error) {
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	u = Normalize(u)
	if u.ID == 0 {
		return User{}, IdentityError{Field: "id"}
	}
	if u.Username == "" {
		return User{}, IdentityError{Field: "username"}
	}
	return u, nil
}

// ParseAppProfiles decodes the app-user collection response, which arrives as
// an array filtered by linked account id. The first profile wins; the
// collection has at most one profile per account by convention.
func ParseAppProfiles(raw json.RawMessage) ([]AppProfile, error) {
	var profiles []AppProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("decode app profiles: %w", err)
	}
	return profiles, nil
}
