// Package main is the entry point for the Changeover Tracker server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/changeover-tracker/backend/internal/api"
	"github.com/changeover-tracker/backend/internal/calendar"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	addr := flag.String("addr", envOr("ADDR", ":8080"), "HTTP server address")
	dataDir := flag.String("data", envOr("DATA_DIR", "./data"), "Data directory for SQLite database")
	staticDir := flag.String("static", envOr("STATIC_DIR", "./static"), "Directory for static frontend files")
	baseURL := flag.String("base-url", envOr("BASE_URL", "http://localhost:8080"), "Externally visible base URL for share links")
	syncIntervalMin := flag.Int("sync-interval", envOrInt("SYNC_INTERVAL_MIN", 60), "Calendar sync interval in minutes")
	syncWorkers := flag.Int("sync-workers", envOrInt("SYNC_WORKERS", calendar.DefaultSyncWorkers), "Concurrent property syncs during a batch run")
	flag.Parse()

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting Changeover Tracker (version: %s)...", version)

	// Initialize database
	dbPath := *dataDir + "/changeover-tracker.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize the sync engine
	properties := storage.NewPropertyRepository(db)
	changeovers := storage.NewChangeoverRepository(db)
	syncService := calendar.NewSyncService(properties, changeovers, calendar.NewFetcher(), *syncWorkers)
	scheduler := calendar.NewScheduler(syncService, hub, *syncIntervalMin)

	if err := scheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start calendar scheduler: %v", err)
	}

	// Initialize HTTP router
	router := api.NewRouter(db, hub, *staticDir, syncService, scheduler, *baseURL)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// envOr returns the environment variable's value, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envOrInt returns the environment variable parsed as an int, or def when
// unset or unparsable.
func envOrInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
