package models

import (
	"time"
)

// Booking is a single reservation parsed from an external iCal feed.
// ExternalID is the feed event's UID and is the sole key used to join
// bookings against persisted changeovers during reconciliation.
type Booking struct {
	ExternalID string    `json:"external_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// PropertySyncResult contains the outcome of syncing one property's
// calendar feed.
type PropertySyncResult struct {
	PropertyID    string    `json:"property_id"`
	PropertyName  string    `json:"property_name"`
	Status        string    `json:"status"`
	BookingsFound int       `json:"bookings_found"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Deleted       int       `json:"deleted"`
	Skipped       int       `json:"skipped"`
	Error         error     `json:"-"`
	SyncedAt      time.Time `json:"synced_at"`
}
