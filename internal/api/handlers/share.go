package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/storage/models"
	ws "github.com/changeover-tracker/backend/internal/websocket"
)

// SharedChangeoverResponse is the unauthenticated view of a changeover
// reached through its share token: the changeover, its property's name and
// its findings. Holding the token is the only credential required.
type SharedChangeoverResponse struct {
	Changeover   models.Changeover `json:"changeover"`
	PropertyName string            `json:"property_name"`
	Findings     []models.Finding  `json:"findings"`
}

// GetSharedChangeover resolves a share token to its changeover and
// findings.
func GetSharedChangeover(changeovers *storage.ChangeoverRepository, findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]

		shared, err := changeovers.GetByShareToken(r.Context(), token)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeover")
			return
		}
		if shared == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Invalid share link")
			return
		}

		list, err := findings.ListByChangeover(r.Context(), shared.ID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query findings")
			return
		}
		if list == nil {
			list = []models.Finding{}
		}

		writeJSON(w, http.StatusOK, SharedChangeoverResponse{
			Changeover:   shared.Changeover,
			PropertyName: shared.PropertyName,
			Findings:     list,
		})
	}
}

// CreateSharedFinding lets a token holder (typically the cleaner)
// contribute a finding without an account.
func CreateSharedFinding(changeovers *storage.ChangeoverRepository, findings *storage.FindingRepository, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]

		shared, err := changeovers.GetByShareToken(r.Context(), token)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeover")
			return
		}
		if shared == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Invalid share link")
			return
		}

		var req FindingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Title == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Title is required")
			return
		}

		finding := &models.Finding{
			ChangeoverID: shared.ID,
			Title:        req.Title,
			Notes:        req.Notes,
			MediaURL:     req.MediaURL,
		}

		if err := findings.Create(r.Context(), finding); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create finding")
			return
		}

		if hub != nil {
			ws.NewEventBroadcaster(hub).BroadcastFindingCreated(*finding)
		}

		writeJSON(w, http.StatusCreated, finding)
	}
}
