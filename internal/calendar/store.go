package calendar

import (
	"context"
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// PropertyStore is the narrow view of property persistence the sync engine
// depends on. The storage package provides the production implementation;
// tests use in-memory fakes.
type PropertyStore interface {
	GetByID(ctx context.Context, id string) (*models.Property, error)
	ListWithCalendarURL(ctx context.Context) ([]models.Property, error)
	UpdateSyncStatus(ctx context.Context, id, status string, syncErr *string, lastSyncedAt *time.Time, initialSyncComplete bool) error
}

// ChangeoverStore is the narrow view of changeover persistence the sync
// engine depends on. ListSynced must return only changeovers with a
// non-null external booking id; manual changeovers stay invisible to sync.
type ChangeoverStore interface {
	ListSynced(ctx context.Context, propertyID string) ([]models.Changeover, error)
	CreateSynced(ctx context.Context, propertyID string, checkin, checkout time.Time, externalID string) error
	UpdateDates(ctx context.Context, id string, checkin, checkout time.Time) error
	Delete(ctx context.Context, id string) error
}
