package cms

import "encoding/json"

// Envelope is the standard collection/single response wrapper. Data is left
// raw: shape adaptation belongs to the domain packages, keeping this client a
// thin, swappable transport layer.
type Envelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

// AuthResponse is the login/register response.
type AuthResponse struct {
	JWT  string          `json:"jwt"`
	User json.RawMessage `json:"user"`
}

// UploadedFile describes one uploaded file from the upload endpoint.
type UploadedFile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Mime string `json:"mime"`
}

// RoleInfo is one users-permissions role.
type RoleInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RolesResponse wraps the roles listing.
type RolesResponse struct {
	Roles []RoleInfo `json:"roles"`
}

// RoleRequestInput creates a role-request record for the approval workflow.
type RoleRequestInput struct {
	User          int64  `json:"user"`
	RequestedRole string `json:"requested_role"`
	Justification string `json:"justification"`
	Status        string `json:"status"`
}

// AppProfileInput creates or updates the extended app-user profile. The
// disability card fields follow the linked-entity schema shape that this
// collection has always used.
type AppProfileInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Birthday       string `json:"birthday,omitempty"`
	PrimLanguage   string `json:"prim_language,omitempty"`
	EmailAddress   string `json:"email_address,omitempty"`
	Number         string `json:"number,omitempty"`
	DisabilityCard *int64 `json:"disability_card,omitempty"`
	Status         string `json:"status,omitempty"`
	IssuingCard    string `json:"issuing_card,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	Account        int64  `json:"users_permissions_user"`
}

// DisabilityCardPatch is the nested-component shape for updating a user's
// accessibility info in place. ID must carry the existing component id when
// updating, or the backend replaces the component instead of patching it.
type DisabilityCardPatch struct {
	ID         *int64 `json:"id,omitempty"`
	CardStatus string `json:"card_status,omitempty"`
	Issuing    string `json:"issuing_card,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	File       *int64 `json:"file,omitempty"`
}

// UserPatch updates an account. Exactly one of the two accessibility shapes
// is populated depending on the backend version the caller talks to: the
// nested component, or the flattened scalar fields.
type UserPatch struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     *int64 `json:"role,omitempty"`

	DisabilityCard *DisabilityCardPatch `json:"disability_card,omitempty"`

	FlatStatus    string `json:"disability_card_status,omitempty"`
	FlatAuthority string `json:"disability_issuing_authority,omitempty"`
	FlatExpiry    string `json:"disability_card_expiry,omitempty"`
	FlatFile      *int64 `json:"disability_card_file,omitempty"`
}

// TicketInput creates a ticket record.
type TicketInput struct {
	Event      int64  `json:"event"`
	TicketType int64  `json:"ticket_type,omitempty"`
	AppUser    int64  `json:"app_user"`
	Status     string `json:"status,omitempty"`
}

// dataWrapper is the {"data": ...} request body most collection endpoints
// expect on writes.
type dataWrapper struct {
	Data any `json:"data"`
}
