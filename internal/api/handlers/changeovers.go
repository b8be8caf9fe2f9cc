package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/storage/models"
	ws "github.com/changeover-tracker/backend/internal/websocket"
)

// ChangeoverRequest is the request body for creating or rescheduling a
// manual changeover. Dates use the YYYY-MM-DD form.
type ChangeoverRequest struct {
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date"`
}

// parseDay parses a YYYY-MM-DD date as UTC midnight.
func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func decodeChangeoverDates(req ChangeoverRequest) (checkin, checkout time.Time, ok bool) {
	checkin, err := parseDay(req.CheckinDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	checkout, err = parseDay(req.CheckoutDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return checkin, checkout, checkout.After(checkin)
}

// ListChangeovers returns all changeovers for a property.
func ListChangeovers(changeovers *storage.ChangeoverRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := changeovers.ListByProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeovers")
			return
		}

		if list == nil {
			list = []models.Changeover{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// CreateChangeover schedules a manual changeover for a property. Manual
// changeovers carry no external booking id and are never touched by
// calendar sync.
func CreateChangeover(properties *storage.PropertyRepository, changeovers *storage.ChangeoverRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req ChangeoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		checkin, checkout, ok := decodeChangeoverDates(req)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Dates must be YYYY-MM-DD with checkout after checkin")
			return
		}

		property, err := properties.GetByID(r.Context(), propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		changeover := &models.Changeover{
			PropertyID:   propertyID,
			CheckinDate:  checkin,
			CheckoutDate: checkout,
		}

		if err := changeovers.Create(r.Context(), changeover); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create changeover")
			return
		}

		writeJSON(w, http.StatusCreated, changeover)
	}
}

// GetChangeover returns a single changeover by ID.
func GetChangeover(changeovers *storage.ChangeoverRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changeover, err := changeovers.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeover")
			return
		}
		if changeover == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Changeover not found")
			return
		}

		writeJSON(w, http.StatusOK, changeover)
	}
}

// UpdateChangeover reschedules a changeover's dates.
func UpdateChangeover(changeovers *storage.ChangeoverRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req ChangeoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		checkin, checkout, ok := decodeChangeoverDates(req)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Dates must be YYYY-MM-DD with checkout after checkin")
			return
		}

		if err := changeovers.UpdateDates(r.Context(), id, checkin, checkout); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Changeover not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UpdateChangeoverStatus moves a changeover through its cleaning
// lifecycle. The status is independent of calendar sync, which never
// touches it.
func UpdateChangeoverStatus(changeovers *storage.ChangeoverRepository, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !models.ValidChangeoverStatus(req.Status) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Status must be scheduled, in_progress or complete")
			return
		}

		changeover, err := changeovers.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeover")
			return
		}
		if changeover == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Changeover not found")
			return
		}

		if err := changeovers.UpdateStatus(r.Context(), id, req.Status); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update changeover status")
			return
		}

		if hub != nil {
			ws.NewEventBroadcaster(hub).BroadcastChangeoverStatusChanged(id, changeover.PropertyID, changeover.Status, req.Status)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteChangeover removes a changeover and its findings.
func DeleteChangeover(changeovers *storage.ChangeoverRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := changeovers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Changeover not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
