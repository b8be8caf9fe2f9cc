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

// FindingRequest is the request body for creating or updating a finding.
type FindingRequest struct {
	Title    string  `json:"title"`
	Notes    string  `json:"notes"`
	MediaURL *string `json:"media_url"`
}

// ListFindings returns all findings for a changeover.
func ListFindings(findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := findings.ListByChangeover(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query findings")
			return
		}

		if list == nil {
			list = []models.Finding{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// CreateFinding records an issue discovered during a changeover.
func CreateFinding(changeovers *storage.ChangeoverRepository, findings *storage.FindingRepository, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changeoverID := mux.Vars(r)["id"]

		var req FindingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Title == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Title is required")
			return
		}

		changeover, err := changeovers.GetByID(r.Context(), changeoverID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeover")
			return
		}
		if changeover == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Changeover not found")
			return
		}

		finding := &models.Finding{
			ChangeoverID: changeoverID,
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

// GetFinding returns a single finding by ID.
func GetFinding(findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finding, err := findings.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query finding")
			return
		}
		if finding == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Finding not found")
			return
		}

		writeJSON(w, http.StatusOK, finding)
	}
}

// UpdateFinding updates a finding's title, notes and media link.
func UpdateFinding(findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req FindingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		finding, err := findings.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query finding")
			return
		}
		if finding == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Finding not found")
			return
		}

		finding.Title = req.Title
		finding.Notes = req.Notes
		finding.MediaURL = req.MediaURL

		if err := findings.Update(r.Context(), finding); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update finding")
			return
		}

		writeJSON(w, http.StatusOK, finding)
	}
}

// UpdateFindingStatus resolves or reopens a finding.
func UpdateFindingStatus(findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !models.ValidFindingStatus(req.Status) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Status must be open or resolved")
			return
		}

		if err := findings.UpdateStatus(r.Context(), id, req.Status); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Finding not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteFinding removes a finding.
func DeleteFinding(findings *storage.FindingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := findings.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Finding not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
