// Package richtext handles the structured rich-text document format the CMS
// returns for description and address fields. Older content revisions stored
// these fields as plain strings, so every entry point tolerates both shapes.
package richtext

import (
	"encoding/json"
	"strings"
)

// Leaf is a single text node inside a paragraph.
type Leaf struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Paragraph is one block-level node. Legacy records occasionally contain a
// bare string where a paragraph object is expected; UnmarshalJSON absorbs
// that into Text.
type Paragraph struct {
	Type     string `json:"type,omitempty"`
	Children []Leaf `json:"children,omitempty"`

	// Text carries the content of a legacy bare-string node.
	Text string `json:"-"`
}

func (p *Paragraph) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = s
		return nil
	}

	type paragraph Paragraph
	var raw paragraph
	if err := json.Unmarshal(data, &raw); err != nil {
		// Malformed node. Keep the document decodable; the node
		// flattens to nothing.
		return nil
	}
	*p = Paragraph(raw)
	return nil
}

// Doc is a rich-text document: an ordered sequence of paragraphs. It decodes
// from either the structured array format or a bare string.
type Doc []Paragraph

func (d *Doc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*d = nil
			return nil
		}
		*d = Doc{{Text: s}}
		return nil
	}

	var paragraphs []Paragraph
	if err := json.Unmarshal(data, &paragraphs); err != nil {
		// Anything else (number, object, bool) is treated as an empty
		// document rather than a decode failure.
		*d = nil
		return nil
	}
	*d = paragraphs
	return nil
}

// Plain returns the document content as plain text, concatenating leaf texts
// and separating paragraphs with a single space.
func (d Doc) Plain() string {
	if len(d) == 0 {
		return ""
	}
	parts := make([]string, 0, len(d))
	for _, p := range d {
		if p.Text != "" {
			parts = append(parts, p.Text)
			continue
		}
		var b strings.Builder
		for _, leaf := range p.Children {
			b.WriteString(leaf.Text)
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether the document flattens to no text.
func (d Doc) IsEmpty() bool {
	return d.Plain() == ""
}

// Flatten converts a raw description value into plain text. Absent, null, or
// malformed input yields an empty string; a bare JSON string is returned
// unchanged. Flatten never fails.
func Flatten(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var doc Doc
	if err := doc.UnmarshalJSON(raw); err != nil {
		return ""
	}
	return doc.Plain()
}
