// Package models defines the data models persisted in the metadata store.
package models

import "time"

// Subject is a top-level grouping of files owned by a single account.
type Subject struct {
	ID      string
	OwnerID string
	Title   string
	Icon    string
	// SortOrder is a display-order hint assigned at creation time
	// (max existing + 1). It carries no uniqueness guarantee.
	SortOrder int64
	CreatedAt time.Time
}
