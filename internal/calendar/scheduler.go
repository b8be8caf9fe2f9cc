package calendar

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/changeover-tracker/backend/internal/storage/models"
	ws "github.com/changeover-tracker/backend/internal/websocket"
)

// Scheduler runs the batch calendar sync on a fixed interval and serves
// manual sync triggers from the API.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	broadcaster *ws.EventBroadcaster
	interval    time.Duration
}

// NewScheduler creates a scheduler that syncs all eligible properties
// every intervalMin minutes (default 60).
func NewScheduler(syncService *SyncService, hub *ws.Hub, intervalMin int) *Scheduler {
	if intervalMin <= 0 {
		intervalMin = 60
	}

	var broadcaster *ws.EventBroadcaster
	if hub != nil {
		broadcaster = ws.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		broadcaster: broadcaster,
		interval:    time.Duration(intervalMin) * time.Minute,
	}
}

// Start registers the periodic batch job and starts the cron runner.
func (s *Scheduler) Start() error {
	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, s.runBatch); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Calendar sync scheduler started (interval %s)", s.interval)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running batch.
func (s *Scheduler) Stop() {
	log.Println("Stopping calendar sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Calendar sync scheduler stopped")
}

// TriggerProperty starts an immediate sync for one property in the
// background.
func (s *Scheduler) TriggerProperty(propertyID string) {
	go func() {
		result, err := s.syncService.SyncProperty(context.Background(), propertyID)
		if result == nil {
			if err != nil {
				log.Printf("Calendar sync failed for property %s: %v", propertyID, err)
			}
			return
		}
		s.report(result, err)
	}()
}

// TriggerAll starts an immediate batch sync in the background.
func (s *Scheduler) TriggerAll() {
	go s.runBatch()
}

func (s *Scheduler) runBatch() {
	results, err := s.syncService.SyncAll(context.Background())
	if err != nil {
		log.Printf("Batch calendar sync failed: %v", err)
		return
	}

	for i := range results {
		s.report(&results[i], results[i].Error)
	}
}

func (s *Scheduler) report(result *models.PropertySyncResult, err error) {
	if err != nil {
		log.Printf("Calendar sync failed for property %s (%s): %v", result.PropertyID, result.PropertyName, err)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastPropertySyncError(result.PropertyID, result.PropertyName, err)
		}
		return
	}

	log.Printf("Calendar sync completed for property %s (%s): %d bookings, %d created, %d updated, %d deleted, %d skipped",
		result.PropertyID, result.PropertyName, result.BookingsFound, result.Created, result.Updated, result.Deleted, result.Skipped)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPropertySyncCompleted(*result)
	}
}
