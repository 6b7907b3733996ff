package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want File
	}{
		{
			name: "media object",
			raw:  `{"id":7,"name":"card.pdf","url":"/uploads/card.pdf","mime":"application/pdf"}`,
			want: File{ID: 7, Name: "card.pdf", URL: "/uploads/card.pdf", Mime: "application/pdf"},
		},
		{
			name: "bare string url",
			raw:  `"/uploads/icon.svg"`,
			want: File{URL: "/uploads/icon.svg"},
		},
		{
			name: "absolute string url",
			raw:  `"https://cdn.example.com/icon.png"`,
			want: File{URL: "https://cdn.example.com/icon.png"},
		},
		{
			name: "malformed reference",
			raw:  `12345`,
			want: File{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f File
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
			assert.Equal(t, tc.want, f)
		})
	}
}

func TestFile_IsZero(t *testing.T) {
	assert.True(t, File{}.IsZero())
	assert.False(t, File{ID: 1}.IsZero())
	assert.False(t, File{URL: "/uploads/x.png"}.IsZero())
}

func TestResolver_Resolve(t *testing.T) {
	r := Resolver{Origin: "http://localhost:1337"}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"relative path", "/uploads/card.pdf", "http://localhost:1337/uploads/card.pdf"},
		{"absolute http", "http://other.example.com/a.png", "http://other.example.com/a.png"},
		{"absolute https", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"empty", "", ""},
		{"opaque value passes through", "wheelchair-emoji", "wheelchair-emoji"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Resolve(tc.ref))
		})
	}
}

func TestResolver_TrailingSlashOrigin(t *testing.T) {
	r := Resolver{Origin: "http://localhost:1337/"}
	assert.Equal(t, "http://localhost:1337/uploads/a.png", r.Resolve("/uploads/a.png"))
}
