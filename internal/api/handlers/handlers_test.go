package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changeover-tracker/backend/internal/api"
	"github.com/changeover-tracker/backend/internal/calendar"
	"github.com/changeover-tracker/backend/internal/storage"
	"github.com/changeover-tracker/backend/internal/storage/models"
	ws "github.com/changeover-tracker/backend/internal/websocket"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, err := storage.NewDB(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	hub := ws.NewHub()
	go hub.Run()

	properties := storage.NewPropertyRepository(db)
	changeovers := storage.NewChangeoverRepository(db)
	syncService := calendar.NewSyncService(properties, changeovers, nil, 1)
	scheduler := calendar.NewScheduler(syncService, hub, 60)

	return api.NewRouter(db, hub, t.TempDir(), syncService, scheduler, "https://example.com")
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createPropertyViaAPI(t *testing.T, router *mux.Router, name string) models.Property {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/properties", map[string]any{
		"owner_id": "owner-1",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[models.Property](t, rec)
}

func createChangeoverViaAPI(t *testing.T, router *mux.Router, propertyID string) models.Changeover {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/properties/"+propertyID+"/changeovers", map[string]string{
		"checkin_date":  "2025-06-14",
		"checkout_date": "2025-06-21",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[models.Changeover](t, rec)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestPropertyCRUD(t *testing.T) {
	router := newTestRouter(t)

	created := createPropertyViaAPI(t, router, "Beach House")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.CalendarSyncPending, created.CalendarSyncStatus)

	rec := doJSON(t, router, http.MethodGet, "/api/properties/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Property](t, rec)
	assert.Equal(t, "Beach House", got.Name)

	rec = doJSON(t, router, http.MethodPut, "/api/properties/"+created.ID, map[string]any{
		"name":         "Beach House II",
		"calendar_url": "https://example.com/cal.ics",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Property](t, rec)
	assert.Equal(t, "Beach House II", updated.Name)
	require.NotNil(t, updated.CalendarURL)

	rec = doJSON(t, router, http.MethodDelete, "/api/properties/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/properties/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePropertyValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/properties", map[string]string{"owner_id": "owner-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeoverLifecycle(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")

	changeover := createChangeoverViaAPI(t, router, property.ID)
	require.NotEmpty(t, changeover.ShareToken)
	assert.Equal(t, models.ChangeoverScheduled, changeover.Status)
	assert.Nil(t, changeover.ExternalBookingID)

	rec := doJSON(t, router, http.MethodPut, "/api/changeovers/"+changeover.ID+"/status", map[string]string{
		"status": models.ChangeoverInProgress,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/changeovers/"+changeover.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Changeover](t, rec)
	assert.Equal(t, models.ChangeoverInProgress, got.Status)
}

func TestChangeoverDateValidation(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")

	// checkout before checkin
	rec := doJSON(t, router, http.MethodPost, "/api/properties/"+property.ID+"/changeovers", map[string]string{
		"checkin_date":  "2025-06-21",
		"checkout_date": "2025-06-14",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/properties/"+property.ID+"/changeovers", map[string]string{
		"checkin_date":  "not-a-date",
		"checkout_date": "2025-06-14",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeoverStatusValidation(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")
	changeover := createChangeoverViaAPI(t, router, property.ID)

	rec := doJSON(t, router, http.MethodPut, "/api/changeovers/"+changeover.ID+"/status", map[string]string{
		"status": "finished",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareEndpoints(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")
	changeover := createChangeoverViaAPI(t, router, property.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/share/"+changeover.ShareToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Beach House")

	rec = doJSON(t, router, http.MethodPost, "/api/share/"+changeover.ShareToken+"/findings", map[string]string{
		"title": "Chipped mug",
		"notes": "Kitchen cupboard",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	finding := decode[models.Finding](t, rec)
	assert.Equal(t, changeover.ID, finding.ChangeoverID)
	assert.Equal(t, models.FindingOpen, finding.Status)

	rec = doJSON(t, router, http.MethodGet, "/api/share/"+changeover.ShareToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chipped mug")

	rec = doJSON(t, router, http.MethodGet, "/api/share/not-a-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarFeedEndpoint(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")
	createChangeoverViaAPI(t, router, property.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/feed-token?userId=owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["token"]
	require.NotEmpty(t, token)

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Changeover: Beach House")
	assert.Contains(t, rec.Body.String(), "URL:https://example.com/share/")

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalendarFeedRotatedTokenInvalidatesOld(t *testing.T) {
	router := newTestRouter(t)
	createPropertyViaAPI(t, router, "Beach House")

	rec := doJSON(t, router, http.MethodGet, "/api/feed-token?userId=owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	old := decode[map[string]string](t, rec)["token"]

	rec = doJSON(t, router, http.MethodPost, "/api/feed-token/rotate", map[string]string{"user_id": "owner-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[map[string]string](t, rec)["token"]
	require.NotEqual(t, old, fresh)

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token="+old, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token="+fresh, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalendarFeedPropertyScope(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")

	rec := doJSON(t, router, http.MethodGet, "/api/feed-token?userId=owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["token"]

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token="+token+"&propertyId="+property.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/feed.ics?userId=owner-1&token="+token+"&propertyId=unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncPropertyRequiresCalendarURL(t *testing.T) {
	router := newTestRouter(t)
	property := createPropertyViaAPI(t, router, "Beach House")

	rec := doJSON(t, router, http.MethodPost, "/api/properties/"+property.ID+"/sync", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/properties/unknown/sync", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
