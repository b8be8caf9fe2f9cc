package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/calendar"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/storage/models"
)

// SyncProperty triggers a calendar sync for one property. The sync runs in
// the background; progress is pushed over the WebSocket and reflected in
// the property's calendar_sync_status.
func SyncProperty(properties *storage.PropertyRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		property, err := properties.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}
		if !property.SyncEligible() {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Property has no calendar URL")
			return
		}

		scheduler.TriggerProperty(id)

		writeJSON(w, http.StatusAccepted, map[string]string{"status": models.CalendarSyncPending})
	}
}

// SyncAll runs the batch sync for every property with a calendar URL and
// returns the per-property results. Individual property failures appear in
// the result list; only a failure to list properties fails the request.
func SyncAll(syncService *calendar.SyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := syncService.SyncAll(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list properties for sync")
			return
		}

		if results == nil {
			results = []models.PropertySyncResult{}
		}

		writeJSON(w, http.StatusOK, results)
	}
}
