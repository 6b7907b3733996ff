package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// populated builds the standard query for relational reads: populate all
// relations plus the content locale.
func (c *Client) populated(locale string) url.Values {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("locale", c.localeOr(locale))
	return q
}

// ListEvents returns the raw event collection envelope.
func (c *Client) ListEvents(ctx context.Context, locale string) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "list_events", http.MethodGet, "/events", c.populated(locale), nil, &env)
	return env, err
}

// GetEvent returns the raw envelope for a single event by document id.
func (c *Client) GetEvent(ctx context.Context, documentID, locale string) (Envelope, error) {
	var env Envelope
	path := "/events/" + url.PathEscape(documentID)
	err := c.doJSON(ctx, "get_event", http.MethodGet, path, c.populated(locale), nil, &env)
	return env, err
}

// Register creates an account and returns the issued token and raw user.
func (c *Client) Register(ctx context.Context, username, email, password string) (AuthResponse, error) {
	var out AuthResponse
	in := map[string]string{"username": username, "email": email, "password": password}
	err := c.doJSON(ctx, "register", http.MethodPost, "/auth/local/register", nil, in, &out)
	return out, err
}

// Login authenticates with a username or email plus password.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResponse, error) {
	var out AuthResponse
	in := map[string]string{"identifier": identifier, "password": password}
	err := c.doJSON(ctx, "login", http.MethodPost, "/auth/local", nil, in, &out)
	return out, err
}

// Me returns the raw record of the authenticated user.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	q := url.Values{}
	q.Set("populate", "*")
	err := c.doJSON(ctx, "me", http.MethodGet, "/users/me", q, nil, &raw)
	return raw, err
}

// UpdateUser updates an account by id and returns the raw updated record.
// Users-permissions endpoints take the patch directly, without the data
// wrapper the collection endpoints use.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch UserPatch) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "/users/" + strconv.FormatInt(id, 10)
	err := c.doJSON(ctx, "update_user", http.MethodPut, path, nil, patch, &raw)
	return raw, err
}

// UpdateMe updates the authenticated user's own account.
func (c *Client) UpdateMe(ctx context.Context, patch UserPatch) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.doJSON(ctx, "update_me", http.MethodPut, "/users/me", nil, patch, &raw)
	return raw, err
}

// Upload sends one file as multipart form data and returns the uploaded-file
// descriptors.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) ([]UploadedFile, error) {
	var files []UploadedFile
	if err := c.upload(ctx, "upload", "/upload", filename, content, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("upload: backend returned no file descriptors")
	}
	return files, nil
}

// Roles lists the users-permissions roles.
func (c *Client) Roles(ctx context.Context) (RolesResponse, error) {
	var out RolesResponse
	err := c.doJSON(ctx, "roles", http.MethodGet, "/users-permissions/roles", nil, nil, &out)
	return out, err
}

// CreateRoleRequest submits a role request for admin approval.
func (c *Client) CreateRoleRequest(ctx context.Context, in RoleRequestInput) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "create_role_request", http.MethodPost, "/role-requests", nil, dataWrapper{Data: in}, &env)
	return env, err
}

// RoleRequests lists role requests with relations populated.
func (c *Client) RoleRequests(ctx context.Context) (Envelope, error) {
	q := url.Values{}
	q.Set("populate", "*")
	var env Envelope
	err := c.doJSON(ctx, "role_requests", http.MethodGet, "/role-requests", q, nil, &env)
	return env, err
}

// UpdateRoleRequest sets the status of a role request.
func (c *Client) UpdateRoleRequest(ctx context.Context, id int64, status string) (Envelope, error) {
	var env Envelope
	path := "/role-requests/" + strconv.FormatInt(id, 10)
	in := dataWrapper{Data: map[string]string{"status": status}}
	err := c.doJSON(ctx, "update_role_request", http.MethodPut, path, nil, in, &env)
	return env, err
}

// CreateAppProfile creates the extended app-user profile linked to an
// account.
func (c *Client) CreateAppProfile(ctx context.Context, in AppProfileInput) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "create_app_profile", http.MethodPost, "/app-users", nil, dataWrapper{Data: in}, &env)
	return env, err
}

// UpdateAppProfile updates an existing app-user profile.
func (c *Client) UpdateAppProfile(ctx context.Context, id int64, in AppProfileInput) (Envelope, error) {
	var env Envelope
	path := "/app-users/" + strconv.FormatInt(id, 10)
	err := c.doJSON(ctx, "update_app_profile", http.MethodPut, path, nil, dataWrapper{Data: in}, &env)
	return env, err
}

// AppProfileByAccount returns the app-user collection filtered by the linked
// account id.
func (c *Client) AppProfileByAccount(ctx context.Context, accountID int64) (Envelope, error) {
	q := url.Values{}
	q.Set("filters[users_permissions_user][id][$eq]", strconv.FormatInt(accountID, 10))
	q.Set("populate", "*")
	var env Envelope
	err := c.doJSON(ctx, "app_profile_by_account", http.MethodGet, "/app-users", q, nil, &env)
	return env, err
}

// ListLocations returns the raw venue collection envelope.
func (c *Client) ListLocations(ctx context.Context, locale string) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "list_locations", http.MethodGet, "/locations", c.populated(locale), nil, &env)
	return env, err
}

// ListOrganizers returns the raw organizer collection envelope.
func (c *Client) ListOrganizers(ctx context.Context, locale string) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "list_organizers", http.MethodGet, "/organizers", c.populated(locale), nil, &env)
	return env, err
}

// ListAccessibilityFeatures returns the raw accessibility-feature collection.
func (c *Client) ListAccessibilityFeatures(ctx context.Context, locale string) (Envelope, error) {
	q := url.Values{}
	q.Set("locale", c.localeOr(locale))
	var env Envelope
	err := c.doJSON(ctx, "list_accessibility_features", http.MethodGet, "/accessibility-features", q, nil, &env)
	return env, err
}

// ListTicketTypes returns the raw ticket-type collection envelope.
func (c *Client) ListTicketTypes(ctx context.Context) (Envelope, error) {
	q := url.Values{}
	q.Set("populate", "*")
	var env Envelope
	err := c.doJSON(ctx, "list_ticket_types", http.MethodGet, "/ticket-types", q, nil, &env)
	return env, err
}

// CreateTicket creates a ticket record.
func (c *Client) CreateTicket(ctx context.Context, in TicketInput) (Envelope, error) {
	var env Envelope
	err := c.doJSON(ctx, "create_ticket", http.MethodPost, "/tickets", nil, dataWrapper{Data: in}, &env)
	return env, err
}

// TicketsForAccount lists tickets whose app-user links to the given account.
func (c *Client) TicketsForAccount(ctx context.Context, accountID int64) (Envelope, error) {
	q := url.Values{}
	q.Set("filters[app_user][users_permissions_user][id][$eq]", strconv.FormatInt(accountID, 10))
	q.Set("populate", "*")
	var env Envelope
	err := c.doJSON(ctx, "tickets_for_account", http.MethodGet, "/tickets", q, nil, &env)
	return env, err
}
