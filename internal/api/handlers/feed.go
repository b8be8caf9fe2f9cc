package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/calendar"
	"github.com/changeover-tracker/backend/internal/storage"
)

// CalendarFeed serves the owner's changeover schedule as a downloadable
// iCal document for external calendar subscription. The request must carry
// userId and the owner's feed capability token; propertyId narrows the
// feed to one property.
func CalendarFeed(
	properties *storage.PropertyRepository,
	changeovers *storage.ChangeoverRepository,
	feedTokens *storage.FeedTokenRepository,
	baseURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := r.URL.Query().Get("userId")
		token := r.URL.Query().Get("token")
		propertyID := r.URL.Query().Get("propertyId")

		if userID == "" || token == "" {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "userId and token are required")
			return
		}

		valid, err := feedTokens.Validate(ctx, userID, token)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to validate token")
			return
		}
		if !valid {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid feed token")
			return
		}

		scope := "changeovers"
		feedName := "Changeovers"
		if propertyID != "" {
			property, err := properties.GetByID(ctx, propertyID)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
				return
			}
			if property == nil || property.OwnerID != userID {
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
				return
			}
			scope = slugify(property.Name)
			feedName = property.Name + " Changeovers"
		}

		entries, err := changeovers.ListForFeed(ctx, userID, propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query changeovers")
			return
		}

		doc := calendar.BuildFeed(feedName, "Property changeover schedule", baseURL, entries, time.Now().UTC())

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", scope+".ics"))
		w.Write([]byte(doc))
	}
}

// slugify turns a property name into a safe filename fragment.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "changeovers"
	}
	return b.String()
}

// GetFeedToken returns the owner's feed capability token, creating one on
// first use.
func GetFeedToken(feedTokens *storage.FeedTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "userId is required")
			return
		}

		token, err := feedTokens.GetOrCreate(r.Context(), userID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load feed token")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"user_id": userID, "token": token})
	}
}

// RotateFeedToken replaces the owner's feed token, invalidating previously
// shared feed URLs.
func RotateFeedToken(feedTokens *storage.FeedTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "user_id is required")
			return
		}

		token, err := feedTokens.Rotate(r.Context(), req.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to rotate feed token")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"user_id": req.UserID, "token": token})
	}
}
