package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busdesk/internal/notifications"
	"busdesk/internal/shared/config"
	"busdesk/internal/shared/database"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bookings/availability" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"route":           q.Get("route"),
				"travelDate":      q.Get("travelDate"),
				"seats":           []interface{}{},
				"reservedSeatIds": []string{"1A"},
			},
		})
	}))
	t.Cleanup(upstreamSrv.Close)

	cfg := config.Load()
	cfg.Upstream.BaseURL = upstreamSrv.URL
	cfg.Upstream.Timeout = time.Second
	cfg.Sync.PollInterval = time.Hour

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router := NewRouter(cfg, &database.DB{}, notifications.NoopPublisher{})
	router.SetupRoutes(engine)
	t.Cleanup(func() { router.SessionManager().Shutdown(context.Background()) })
	return engine
}

func TestHealthWithoutStores(t *testing.T) {
	engine := newTestServer(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOpenSessionAgainstUpstream(t *testing.T) {
	engine := newTestServer(t)

	body, _ := json.Marshal(map[string]interface{}{
		"trip":      map[string]interface{}{"route": "Jakarta-Bandung", "travelDate": "2026-11-02"},
		"seatCount": 2,
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			SyncState string `json:"sync_state"`
			SeatMap   struct {
				Selected []string `json:"selected"`
			} `json:"seat_map"`
			Notices []string `json:"notices"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.SyncState != "synced" {
		t.Fatalf("expected synced, got %s", resp.Data.SyncState)
	}
	if len(resp.Data.SeatMap.Selected) != 1 || resp.Data.SeatMap.Selected[0] != "1C" || len(resp.Data.Notices) != 1 {
		t.Fatalf("1A should have been reclaimed: %+v", resp.Data)
	}
}

func TestBookingListRequiresToken(t *testing.T) {
	engine := newTestServer(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
