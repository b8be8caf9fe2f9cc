package models

import (
	"time"
)

// Changeover represents a cleaning/turnover period for a property, bounded
// by guest check-in and check-out dates. Changeovers are either scheduled
// manually (ExternalBookingID nil) or created by calendar sync
// (ExternalBookingID set to the feed event's UID).
type Changeover struct {
	ID                string    `json:"id"`
	PropertyID        string    `json:"property_id"`
	CheckinDate       time.Time `json:"checkin_date"`
	CheckoutDate      time.Time `json:"checkout_date"`
	ExternalBookingID *string   `json:"external_booking_id,omitempty"`
	Status            string    `json:"status"`
	ShareToken        string    `json:"share_token"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Changeover status constants
const (
	ChangeoverScheduled  = "scheduled"
	ChangeoverInProgress = "in_progress"
	ChangeoverComplete   = "complete"
)

// ValidChangeoverStatus reports whether s is a known changeover status.
func ValidChangeoverStatus(s string) bool {
	switch s {
	case ChangeoverScheduled, ChangeoverInProgress, ChangeoverComplete:
		return true
	}
	return false
}

// Synced reports whether the changeover originated from an external
// calendar sync. Manual changeovers are never touched by the reconciler.
func (c *Changeover) Synced() bool {
	return c.ExternalBookingID != nil && *c.ExternalBookingID != ""
}

// ChangeoverWithProperty pairs a changeover with its property's name for
// feed generation and share views.
type ChangeoverWithProperty struct {
	Changeover
	PropertyName string `json:"property_name"`
}
