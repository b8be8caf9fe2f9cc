package calendar

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// DefaultSyncWorkers bounds how many properties sync concurrently during a
// batch run, so a large account cannot overwhelm the feed providers or the
// store.
const DefaultSyncWorkers = 5

// SyncService drives properties through fetch → parse → reconcile → apply,
// recording per-property success or failure independently.
type SyncService struct {
	properties  PropertyStore
	changeovers ChangeoverStore
	fetcher     *Fetcher
	workers     int
}

// NewSyncService creates a sync service. A nil fetcher gets the default
// 30-second-timeout fetcher; workers <= 0 falls back to DefaultSyncWorkers.
func NewSyncService(properties PropertyStore, changeovers ChangeoverStore, fetcher *Fetcher, workers int) *SyncService {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	if workers <= 0 {
		workers = DefaultSyncWorkers
	}
	return &SyncService{
		properties:  properties,
		changeovers: changeovers,
		fetcher:     fetcher,
		workers:     workers,
	}
}

// SyncProperty synchronizes a single property's calendar feed and returns
// the per-property result. The returned error is a SyncFailure when the
// fetch or parse aborted the sync; individual record failures during the
// apply phase are logged and counted but do not fail the sync.
func (s *SyncService) SyncProperty(ctx context.Context, propertyID string) (*models.PropertySyncResult, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property not found: %s", propertyID)
	}
	if !property.SyncEligible() {
		return nil, fmt.Errorf("property %s has no calendar URL", propertyID)
	}

	return s.syncProperty(ctx, property)
}

func (s *SyncService) syncProperty(ctx context.Context, property *models.Property) (*models.PropertySyncResult, error) {
	result := &models.PropertySyncResult{
		PropertyID:   property.ID,
		PropertyName: property.Name,
		SyncedAt:     time.Now().UTC(),
	}

	// Transition to pending and clear any previous error.
	if err := s.properties.UpdateSyncStatus(ctx, property.ID, models.CalendarSyncPending, nil, nil, property.InitialSyncComplete); err != nil {
		log.Printf("Failed to mark property %s pending: %v", property.ID, err)
	}

	text, err := s.fetcher.Fetch(ctx, *property.CalendarURL)
	if err != nil {
		return s.fail(ctx, property, result, err)
	}

	bookings, err := ParseICS(strings.NewReader(text))
	if err != nil {
		return s.fail(ctx, property, result, err)
	}
	result.BookingsFound = len(bookings)

	existing, err := s.changeovers.ListSynced(ctx, property.ID)
	if err != nil {
		return s.fail(ctx, property, result, err)
	}

	ops := Reconcile(property.ID, existing, bookings)
	s.apply(ctx, ops, result)

	now := time.Now().UTC()
	if err := s.properties.UpdateSyncStatus(ctx, property.ID, models.CalendarSyncSynced, nil, &now, true); err != nil {
		log.Printf("Failed to mark property %s synced: %v", property.ID, err)
	}
	result.Status = models.CalendarSyncSynced

	return result, nil
}

// apply executes creates, updates and deletes best-effort. A single failed
// record is logged and skipped so one bad row cannot block the rest of the
// batch from syncing.
func (s *SyncService) apply(ctx context.Context, ops ReconcileResult, result *models.PropertySyncResult) {
	for _, op := range ops.Creates {
		if err := s.changeovers.CreateSynced(ctx, op.PropertyID, op.Checkin, op.Checkout, op.ExternalID); err != nil {
			log.Printf("Sync apply error: %v", &PersistenceError{Op: "create", ExternalID: op.ExternalID, Cause: err})
			result.Skipped++
			continue
		}
		result.Created++
	}

	for _, op := range ops.Updates {
		if err := s.changeovers.UpdateDates(ctx, op.ChangeoverID, op.Checkin, op.Checkout); err != nil {
			log.Printf("Sync apply error: %v", &PersistenceError{Op: "update", ExternalID: op.ExternalID, Cause: err})
			result.Skipped++
			continue
		}
		result.Updated++
	}

	for _, op := range ops.Deletes {
		if err := s.changeovers.Delete(ctx, op.ChangeoverID); err != nil {
			log.Printf("Sync apply error: %v", &PersistenceError{Op: "delete", ExternalID: op.ExternalID, Cause: err})
			result.Skipped++
			continue
		}
		result.Deleted++
	}
}

// fail transitions the property to failed, recording the cause's message
// as its sync error. initial_sync_complete keeps its previous value.
func (s *SyncService) fail(ctx context.Context, property *models.Property, result *models.PropertySyncResult, cause error) (*models.PropertySyncResult, error) {
	failure := &SyncFailure{PropertyID: property.ID, Cause: cause}

	msg := cause.Error()
	if err := s.properties.UpdateSyncStatus(ctx, property.ID, models.CalendarSyncFailed, &msg, nil, property.InitialSyncComplete); err != nil {
		log.Printf("Failed to mark property %s failed: %v", property.ID, err)
	}

	result.Status = models.CalendarSyncFailed
	result.Error = failure
	return result, failure
}

// SyncAll synchronizes every property that has a calendar URL. Properties
// run concurrently up to the worker bound, each independently: one
// property's failure never blocks the others. The returned error is
// non-nil only when the property listing itself fails.
func (s *SyncService) SyncAll(ctx context.Context) ([]models.PropertySyncResult, error) {
	properties, err := s.properties.ListWithCalendarURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}

	results := make([]models.PropertySyncResult, len(properties))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range properties {
		wg.Add(1)
		go func(i int, property models.Property) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.syncProperty(ctx, &property)
			if err != nil {
				log.Printf("Calendar sync failed for property %s: %v", property.ID, err)
			}
			results[i] = *result
		}(i, properties[i])
	}
	wg.Wait()

	return results, nil
}
