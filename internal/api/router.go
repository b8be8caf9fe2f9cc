// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/changeover-tracker/backend/internal/api/handlers"
	"github.com/changeover-tracker/backend/internal/api/middleware"
	"github.com/changeover-tracker/backend/internal/calendar"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/websocket"
)

// NewRouter creates and configures the HTTP router with all API routes.
// baseURL is the externally visible origin used for share links inside the
// published calendar feed.
func NewRouter(
	db *storage.DB,
	hub *websocket.Hub,
	staticDir string,
	syncService *calendar.SyncService,
	scheduler *calendar.Scheduler,
	baseURL string,
) *mux.Router {
	properties := storage.NewPropertyRepository(db)
	changeovers := storage.NewChangeoverRepository(db)
	findings := storage.NewFindingRepository(db)
	feedTokens := storage.NewFeedTokenRepository(db)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(db)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(db, hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Property endpoints
	api.HandleFunc("/properties", handlers.ListProperties(properties)).Methods("GET")
	api.HandleFunc("/properties", handlers.CreateProperty(properties)).Methods("POST")
	api.HandleFunc("/properties/{id}", handlers.GetProperty(properties)).Methods("GET")
	api.HandleFunc("/properties/{id}", handlers.UpdateProperty(properties)).Methods("PUT")
	api.HandleFunc("/properties/{id}", handlers.DeleteProperty(properties)).Methods("DELETE")

	// Calendar sync endpoints
	api.HandleFunc("/properties/{id}/sync", handlers.SyncProperty(properties, scheduler)).Methods("POST")
	api.HandleFunc("/sync", handlers.SyncAll(syncService)).Methods("POST")

	// Changeover endpoints
	api.HandleFunc("/properties/{id}/changeovers", handlers.ListChangeovers(changeovers)).Methods("GET")
	api.HandleFunc("/properties/{id}/changeovers", handlers.CreateChangeover(properties, changeovers)).Methods("POST")
	api.HandleFunc("/changeovers/{id}", handlers.GetChangeover(changeovers)).Methods("GET")
	api.HandleFunc("/changeovers/{id}", handlers.UpdateChangeover(changeovers)).Methods("PUT")
	api.HandleFunc("/changeovers/{id}", handlers.DeleteChangeover(changeovers)).Methods("DELETE")
	api.HandleFunc("/changeovers/{id}/status", handlers.UpdateChangeoverStatus(changeovers, hub)).Methods("PUT")

	// Finding endpoints
	api.HandleFunc("/changeovers/{id}/findings", handlers.ListFindings(findings)).Methods("GET")
	api.HandleFunc("/changeovers/{id}/findings", handlers.CreateFinding(changeovers, findings, hub)).Methods("POST")
	api.HandleFunc("/findings/{id}", handlers.GetFinding(findings)).Methods("GET")
	api.HandleFunc("/findings/{id}", handlers.UpdateFinding(findings)).Methods("PUT")
	api.HandleFunc("/findings/{id}", handlers.DeleteFinding(findings)).Methods("DELETE")
	api.HandleFunc("/findings/{id}/status", handlers.UpdateFindingStatus(findings)).Methods("PUT")

	// Share endpoints (capability token, no account required)
	api.HandleFunc("/share/{token}", handlers.GetSharedChangeover(changeovers, findings)).Methods("GET")
	api.HandleFunc("/share/{token}/findings", handlers.CreateSharedFinding(changeovers, findings, hub)).Methods("POST")

	// Outbound calendar feed
	api.HandleFunc("/feed.ics", handlers.CalendarFeed(properties, changeovers, feedTokens, baseURL)).Methods("GET")
	api.HandleFunc("/feed-token", handlers.GetFeedToken(feedTokens)).Methods("GET")
	api.HandleFunc("/feed-token/rotate", handlers.RotateFeedToken(feedTokens)).Methods("POST")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
