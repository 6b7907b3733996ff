// Package media normalizes the file and icon references the CMS attaches to
// entities. A reference may arrive as a bare URL string or as an uploaded-file
// object; URLs may be absolute or root-relative to the backend origin.
package media

import (
	"encoding/json"
	"strings"
)

// File is an uploaded-file descriptor. It decodes from either a media object
// or a bare string URL.
type File struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	Mime string `json:"mime,omitempty"`
}

func (f *File) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.URL = s
		return nil
	}

	type file File
	var raw file
	if err := json.Unmarshal(data, &raw); err != nil {
		// Unusable reference; leave the file empty rather than fail the
		// enclosing entity.
		return nil
	}
	*f = File(raw)
	return nil
}

// IsZero reports whether the reference carries no usable information.
func (f File) IsZero() bool {
	return f.ID == 0 && f.URL == "" && f.Name == ""
}

// Resolver turns CMS file references into browseable URLs.
type Resolver struct {
	// Origin is the backend origin (scheme://host[:port]) that
	// root-relative upload paths resolve against.
	Origin string
}

// Resolve returns an absolute URL for ref. Absolute http(s) URLs pass through
// unchanged; root-relative paths are joined to the configured origin. Any
// other value is returned as-is so callers can still display it.
func (r Resolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return strings.TrimSuffix(r.Origin, "/") + ref
	}
	return ref
}

// ResolveFile returns the browseable URL for a file reference, or an empty
// string when the reference has no URL.
func (r Resolver) ResolveFile(f File) string {
	return r.Resolve(f.URL)
}
