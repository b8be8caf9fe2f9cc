package calendar

import (
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// ChangeoverCreate is a changeover to insert for a booking not seen before.
type ChangeoverCreate struct {
	PropertyID string
	ExternalID string
	Checkin    time.Time
	Checkout   time.Time
}

// ChangeoverUpdate moves an existing synced changeover to the booking's
// current dates. Only dates change; status and share token are untouched.
type ChangeoverUpdate struct {
	ChangeoverID string
	ExternalID   string
	Checkin      time.Time
	Checkout     time.Time
}

// ChangeoverDelete removes a synced changeover whose booking disappeared
// from the source feed.
type ChangeoverDelete struct {
	ChangeoverID string
	ExternalID   string
}

// ReconcileResult holds the operations needed to bring a property's synced
// changeovers in line with a freshly fetched booking set. The three sets
// are independent; applying them is best-effort per record.
type ReconcileResult struct {
	Creates []ChangeoverCreate
	Updates []ChangeoverUpdate
	Deletes []ChangeoverDelete
}

// Empty reports whether the reconciliation produced no work.
func (r *ReconcileResult) Empty() bool {
	return len(r.Creates) == 0 && len(r.Updates) == 0 && len(r.Deletes) == 0
}

// Reconcile diffs fresh bookings against a property's persisted synced
// changeovers. The external booking id is the sole join key. Manually
// scheduled changeovers (nil external booking id) and changeovers of other
// properties are ignored entirely: sync and manual scheduling are fully
// partitioned. Running Reconcile again after applying its result against
// an unchanged feed yields zero operations.
func Reconcile(propertyID string, existing []models.Changeover, fresh []models.Booking) ReconcileResult {
	var result ReconcileResult

	byExternalID := make(map[string]models.Changeover, len(existing))
	for _, c := range existing {
		if c.Synced() && c.PropertyID == propertyID {
			byExternalID[*c.ExternalBookingID] = c
		}
	}

	seen := make(map[string]bool, len(fresh))
	for _, b := range fresh {
		// A feed repeating a UID contributes only its first occurrence.
		if seen[b.ExternalID] {
			continue
		}
		seen[b.ExternalID] = true

		c, ok := byExternalID[b.ExternalID]
		if !ok {
			result.Creates = append(result.Creates, ChangeoverCreate{
				PropertyID: propertyID,
				ExternalID: b.ExternalID,
				Checkin:    b.Start,
				Checkout:   b.End,
			})
			continue
		}

		if !c.CheckinDate.Equal(b.Start) || !c.CheckoutDate.Equal(b.End) {
			result.Updates = append(result.Updates, ChangeoverUpdate{
				ChangeoverID: c.ID,
				ExternalID:   b.ExternalID,
				Checkin:      b.Start,
				Checkout:     b.End,
			})
		}
	}

	for _, c := range existing {
		if !c.Synced() || c.PropertyID != propertyID {
			continue
		}
		if !seen[*c.ExternalBookingID] {
			result.Deletes = append(result.Deletes, ChangeoverDelete{
				ChangeoverID: c.ID,
				ExternalID:   *c.ExternalBookingID,
			})
		}
	}

	return result
}
