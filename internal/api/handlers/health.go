package handlers

import (
	"net/http"

	"github.com/changeover-tracker/backend/internal/storage"
	ws "github.com/changeover-tracker/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	Properties       int `json:"properties"`
	SyncEligible     int `json:"sync_eligible"`
	FailedSyncs      int `json:"failed_syncs"`
	Changeovers      int `json:"changeovers"`
	OpenFindings     int `json:"open_findings"`
	ConnectedClients int `json:"connected_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var response StatusResponse
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&response.Properties)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties WHERE calendar_url IS NOT NULL AND calendar_url != ''").Scan(&response.SyncEligible)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties WHERE calendar_sync_status = 'failed'").Scan(&response.FailedSyncs)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM changeovers").Scan(&response.Changeovers)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM findings WHERE status = 'open'").Scan(&response.OpenFindings)

		if hub != nil {
			response.ConnectedClients = hub.ClientCount()
		}

		writeJSON(w, http.StatusOK, response)
	}
}
