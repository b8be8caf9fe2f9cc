// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/storage/models"
)

// PropertyRequest is the request body for creating or updating a property.
type PropertyRequest struct {
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	CalendarURL *string `json:"calendar_url"`
}

// ListProperties returns all properties, optionally filtered by owner via
// the ownerId query parameter.
func ListProperties(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := properties.List(r.Context(), r.URL.Query().Get("ownerId"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query properties")
			return
		}

		if list == nil {
			list = []models.Property{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// CreateProperty adds a new property. A calendar URL makes it eligible for
// calendar sync, starting in the pending state.
func CreateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || req.OwnerID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name and owner_id are required")
			return
		}

		property := &models.Property{
			OwnerID:     req.OwnerID,
			Name:        req.Name,
			Address:     req.Address,
			CalendarURL: req.CalendarURL,
		}

		if err := properties.Create(r.Context(), property); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create property")
			return
		}

		writeJSON(w, http.StatusCreated, property)
	}
}

// GetProperty returns a single property by ID, including its current
// calendar sync status and last sync error.
func GetProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, err := properties.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		writeJSON(w, http.StatusOK, property)
	}
}

// UpdateProperty updates a property's name, address and calendar URL.
func UpdateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		property, err := properties.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		property.Name = req.Name
		property.Address = req.Address
		property.CalendarURL = req.CalendarURL

		if err := properties.Update(r.Context(), property); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update property")
			return
		}

		writeJSON(w, http.StatusOK, property)
	}
}

// DeleteProperty removes a property and all of its changeovers and
// findings.
func DeleteProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := properties.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
