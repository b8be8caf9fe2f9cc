// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Property represents a rental property whose cleaning changeovers are
// tracked. A property with a calendar URL is eligible for external
// calendar sync.
type Property struct {
	ID                  string     `json:"id"`
	OwnerID             string     `json:"owner_id"`
	Name                string     `json:"name"`
	Address             string     `json:"address,omitempty"`
	CalendarURL         *string    `json:"calendar_url,omitempty"`
	CalendarSyncStatus  string     `json:"calendar_sync_status"`
	CalendarSyncError   *string    `json:"calendar_sync_error,omitempty"`
	CalendarLastSynced  *time.Time `json:"calendar_last_synced,omitempty"`
	InitialSyncComplete bool       `json:"initial_sync_complete"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Calendar sync status constants
const (
	CalendarSyncPending = "pending"
	CalendarSyncSynced  = "synced"
	CalendarSyncFailed  = "failed"
)

// SyncEligible reports whether the property has an external calendar feed
// configured.
func (p *Property) SyncEligible() bool {
	return p.CalendarURL != nil && *p.CalendarURL != ""
}
