package models

import "time"

// Category is the fixed two-valued partition under which files are grouped
// within a subject.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryWritten     Category = "written"
)

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == CategoryPerformance || c == CategoryWritten
}

// File describes metadata for one uploaded document. The binary content
// itself lives in object storage under ObjectPath, which is the only link
// between the two stores and is unique process-wide.
type File struct {
	ID        string
	OwnerID   string
	SubjectID string
	Category  Category
	// Title is the user-visible name; it is the only mutable field.
	Title string
	// ObjectPath is the object-storage key of the blob. Immutable once set.
	ObjectPath string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}

// Preview is a short-lived view handle for one file: a signed URL plus the
// display fields the caller needs to render it.
type Preview struct {
	URL      string
	Title    string
	MimeType string
}
