package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func syncedChangeover(id, propertyID, externalID string, checkin, checkout time.Time) models.Changeover {
	return models.Changeover{
		ID:                id,
		PropertyID:        propertyID,
		CheckinDate:       checkin,
		CheckoutDate:      checkout,
		ExternalBookingID: &externalID,
		Status:            models.ChangeoverScheduled,
	}
}

func TestReconcileCreatesNewBookings(t *testing.T) {
	fresh := []models.Booking{
		{ExternalID: "b1", Start: day(2025, 6, 1), End: day(2025, 6, 5)},
		{ExternalID: "b2", Start: day(2025, 6, 10), End: day(2025, 6, 15)},
	}

	result := Reconcile("prop-1", nil, fresh)

	require.Len(t, result.Creates, 2)
	assert.Empty(t, result.Updates)
	assert.Empty(t, result.Deletes)
	assert.Equal(t, "prop-1", result.Creates[0].PropertyID)
	assert.Equal(t, "b1", result.Creates[0].ExternalID)
	assert.Equal(t, day(2025, 6, 1), result.Creates[0].Checkin)
}

func TestReconcileUpdatesShiftedDates(t *testing.T) {
	existing := []models.Changeover{
		syncedChangeover("c1", "prop-1", "b1", day(2025, 6, 1), day(2025, 6, 5)),
	}
	fresh := []models.Booking{
		{ExternalID: "b1", Start: day(2025, 6, 2), End: day(2025, 6, 6)},
	}

	result := Reconcile("prop-1", existing, fresh)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, "c1", result.Updates[0].ChangeoverID)
	assert.Equal(t, day(2025, 6, 2), result.Updates[0].Checkin)
	assert.Equal(t, day(2025, 6, 6), result.Updates[0].Checkout)
	assert.Empty(t, result.Creates)
	assert.Empty(t, result.Deletes)
}

func TestReconcileDeletesVanishedBookings(t *testing.T) {
	existing := []models.Changeover{
		syncedChangeover("c1", "prop-1", "cancelled", day(2025, 6, 1), day(2025, 6, 5)),
		syncedChangeover("c2", "prop-1", "kept", day(2025, 7, 1), day(2025, 7, 5)),
	}
	fresh := []models.Booking{
		{ExternalID: "kept", Start: day(2025, 7, 1), End: day(2025, 7, 5)},
	}

	result := Reconcile("prop-1", existing, fresh)

	require.Len(t, result.Deletes, 1)
	assert.Equal(t, "c1", result.Deletes[0].ChangeoverID)
	assert.Empty(t, result.Creates)
	assert.Empty(t, result.Updates)
}

func TestReconcileUnchangedFeedIsNoOp(t *testing.T) {
	existing := []models.Changeover{
		syncedChangeover("c1", "prop-1", "b1", day(2025, 6, 1), day(2025, 6, 5)),
	}
	fresh := []models.Booking{
		{ExternalID: "b1", Start: day(2025, 6, 1), End: day(2025, 6, 5)},
	}

	result := Reconcile("prop-1", existing, fresh)
	assert.True(t, result.Empty())
}

func TestReconcileIgnoresManualChangeovers(t *testing.T) {
	manual := models.Changeover{
		ID:           "manual-1",
		PropertyID:   "prop-1",
		CheckinDate:  day(2025, 8, 1),
		CheckoutDate: day(2025, 8, 3),
		Status:       models.ChangeoverScheduled,
	}

	// Empty feed; a synced changeover would be deleted, a manual one must not be.
	result := Reconcile("prop-1", []models.Changeover{manual}, nil)
	assert.True(t, result.Empty())
}

func TestReconcileIgnoresOtherProperties(t *testing.T) {
	existing := []models.Changeover{
		syncedChangeover("c1", "prop-2", "b1", day(2025, 6, 1), day(2025, 6, 5)),
	}

	result := Reconcile("prop-1", existing, nil)
	assert.True(t, result.Empty())
}

func TestReconcileDeduplicatesRepeatedUIDs(t *testing.T) {
	fresh := []models.Booking{
		{ExternalID: "dup", Start: day(2025, 6, 1), End: day(2025, 6, 5)},
		{ExternalID: "dup", Start: day(2025, 9, 1), End: day(2025, 9, 5)},
	}

	result := Reconcile("prop-1", nil, fresh)

	require.Len(t, result.Creates, 1)
	assert.Equal(t, day(2025, 6, 1), result.Creates[0].Checkin)
}

func TestReconcileConvergesAfterApply(t *testing.T) {
	fresh := []models.Booking{
		{ExternalID: "b1", Start: day(2025, 6, 1), End: day(2025, 6, 5)},
	}

	first := Reconcile("prop-1", nil, fresh)
	require.Len(t, first.Creates, 1)

	// Simulate applying the create, then reconcile the same feed again.
	applied := []models.Changeover{
		syncedChangeover("c1", "prop-1", first.Creates[0].ExternalID, first.Creates[0].Checkin, first.Creates[0].Checkout),
	}
	second := Reconcile("prop-1", applied, fresh)
	assert.True(t, second.Empty())
}
