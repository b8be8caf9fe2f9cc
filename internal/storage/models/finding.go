package models

import (
	"time"
)

// Finding is an issue discovered during a changeover: damage, missing
// items, maintenance needs. Media evidence is referenced by URL; upload
// storage lives outside this service.
type Finding struct {
	ID           string    `json:"id"`
	ChangeoverID string    `json:"changeover_id"`
	Title        string    `json:"title"`
	Notes        string    `json:"notes,omitempty"`
	MediaURL     *string   `json:"media_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Finding status constants
const (
	FindingOpen     = "open"
	FindingResolved = "resolved"
)

// ValidFindingStatus reports whether s is a known finding status.
func ValidFindingStatus(s string) bool {
	return s == FindingOpen || s == FindingResolved
}
