package models

import "fmt"

// Field identifies one tracked value of a row.
type Field string

const (
	FieldTitle           Field = "title"
	FieldMetaDescription Field = "meta_description"
	FieldH1              Field = "h1"
	FieldStatus          Field = "status"
)

// Label is the human-readable field name used in reports.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldMetaDescription:
		return "Meta Description"
	case FieldH1:
		return "H1 Tag"
	case FieldStatus:
		return "Status Code"
	default:
		return string(f)
	}
}

// DiffOperation defines the type of change of a diff segment.
type DiffOperation int

const (
	// DiffEqual indicates an unchanged segment.
	DiffEqual DiffOperation = 0
	// DiffInsert indicates an inserted segment.
	DiffInsert DiffOperation = 1
	// DiffDelete indicates a deleted segment.
	DiffDelete DiffOperation = -1
)

// DiffSegment is one piece of an inline diff between an old and new value.
type DiffSegment struct {
	Operation DiffOperation `json:"operation"`
	Text      string        `json:"text"`
}

// ChangeRecord is a single detected difference between a field's previous
// and current value.
type ChangeRecord struct {
	Client string `json:"client"`
	URL    string `json:"url"`
	Field  Field  `json:"field"`
	Old    string `json:"old"`
	New    string `json:"new"`

	// Segments is an optional word-level diff of Old and New.
	Segments []DiffSegment `json:"segments,omitempty"`
}

// Message renders the change as plain text.
func (c ChangeRecord) Message() string {
	if c.Field == FieldStatus {
		return fmt.Sprintf("%s changed for %s (Old: %s → New: %s)", c.Field.Label(), c.URL, c.Old, c.New)
	}
	return fmt.Sprintf("%s changed for %s\nOld: ~~\"%s\"~~ → New: \"%s\"", c.Field.Label(), c.URL, c.Old, c.New)
}
