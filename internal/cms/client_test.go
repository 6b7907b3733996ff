package cms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func TestClient_ListEvents(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("populate"))
		assert.Equal(t, "de", r.URL.Query().Get("locale"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"First"}],"meta":{"pagination":{"total":1}}}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL,
		WithTokenSource(staticToken("token-123")),
		WithLocale("de"),
		WithRateLimit(100))

	env, err := client.ListEvents(context.Background(), "")
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
}

func TestClient_LocaleOverride(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fr", r.URL.Query().Get("locale"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithLocale("en"), WithRateLimit(100))
	_, err := client.ListEvents(context.Background(), "fr")
	require.NoError(t, err)
}

func TestClient_NoTokenMeansUnauthenticatedRequest(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithTokenSource(staticToken("")), WithRateLimit(100))
	_, err := client.ListEvents(context.Background(), "")
	require.NoError(t, err)
}

func TestClient_Login(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/local", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "dana@example.com", in["identifier"])
		assert.Equal(t, "hunter22", in["password"])

		_, _ = w.Write([]byte(`{"jwt":"issued-token","user":{"id":5,"username":"dana"}}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	out, err := client.Login(context.Background(), "dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", out.JWT)
	assert.JSONEq(t, `{"id":5,"username":"dana"}`, string(out.User))
}

func TestClient_ErrorPropagation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		check       func(error) bool
	}{
		{
			name:        "validation with nested message",
			status:      http.StatusBadRequest,
			body:        `{"error":{"status":400,"message":"email must be unique"}}`,
			wantMessage: "email must be unique",
			check:       IsValidation,
		},
		{
			name:        "validation with flat message",
			status:      http.StatusBadRequest,
			body:        `{"message":"invalid payload"}`,
			wantMessage: "invalid payload",
			check:       IsValidation,
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        `{"error":{"message":"Forbidden"}}`,
			wantMessage: "Forbidden",
			check:       IsPermissionDenied,
		},
		{
			name:        "method not allowed counts as permission failure",
			status:      http.StatusMethodNotAllowed,
			body:        ``,
			wantMessage: "",
			check:       IsPermissionDenied,
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Missing or invalid credentials"}}`,
			wantMessage: "Missing or invalid credentials",
			check:       IsUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer mockServer.Close()

			client := NewClient(mockServer.URL, WithRateLimit(100))
			_, err := client.Me(context.Background())
			require.Error(t, err)
			assert.True(t, tc.check(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.body, string(apiErr.Body), "body must propagate unchanged")
			assert.Equal(t, tc.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	attempts := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	_, err := client.ListEvents(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestClient_Upload(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "card.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake pdf bytes", string(content))

		_, _ = w.Write([]byte(`[{"id":3,"name":"card.pdf","url":"/uploads/card.pdf"}]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	files, err := client.Upload(context.Background(), "card.pdf", strings.NewReader("fake pdf bytes"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(3), files[0].ID)
	assert.Equal(t, "/uploads/card.pdf", files[0].URL)
}

func TestClient_Upload_EmptyDescriptorList(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	_, err := client.Upload(context.Background(), "card.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestClient_WriteEndpointsWrapData(t *testing.T) {
	var gotBody map[string]json.RawMessage
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/role-requests/9", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"data":{"id":9}}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	_, err := client.UpdateRoleRequest(context.Background(), 9, "approved")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"approved"}`, string(gotBody["data"]))
}

func TestClient_UserUpdateIsUnwrapped(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/5", r.URL.Path)

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "data", "users-permissions endpoints take the patch directly")
		assert.Contains(t, body, "username")

		_, _ = w.Write([]byte(`{"id":5,"username":"renamed"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	raw, err := client.UpdateUser(context.Background(), 5, UserPatch{Username: "renamed"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"username":"renamed"}`, string(raw))
}

func TestClient_AppProfileFilter(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app-users", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("filters[users_permissions_user][id][$eq]"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, WithRateLimit(100))
	_, err := client.AppProfileByAccount(context.Background(), 5)
	require.NoError(t, err)
}
