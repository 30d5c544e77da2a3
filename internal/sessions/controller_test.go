package sessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"busdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

func newTestEngine(t *testing.T) (*gin.Engine, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager, _ := newTestManager(t, &stubBookings{})
	engine := gin.New()
	SetupSessionRoutes(engine.Group("/api/v1"), NewController(manager), testAuth)
	return engine, manager
}

// testAuth signs in whoever is named in X-Test-User
func testAuth(c *gin.Context) {
	if user := c.GetHeader("X-Test-User"); user != "" {
		c.Set(middleware.ContextKeyUserID, user)
		c.Set(middleware.ContextKeyAccessToken, "token-"+user)
	}
	c.Next()
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return doRequestAs(t, engine, "", method, path, body)
}

func doRequestAs(t *testing.T, engine *gin.Engine, user, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func openSession(t *testing.T, engine *gin.Engine) View {
	t.Helper()
	rec, env := doRequest(t, engine, http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"trip":      map[string]interface{}{"route": testTrip.Route, "travelDate": testTrip.TravelDate, "pricePerTicket": 100},
		"seatCount": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var view View
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestOpenSessionRequiresTrip(t *testing.T) {
	engine, _ := newTestEngine(t)
	rec, _ := doRequest(t, engine, http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"trip": map[string]interface{}{"route": "A-B"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	engine, _ := newTestEngine(t)
	view := openSession(t, engine)
	base := "/api/v1/sessions/" + view.ID

	if view.SeatMap.SelectedCount != 1 || view.SeatMap.MaxSelectable != 2 {
		t.Fatalf("unexpected seat map %+v", view.SeatMap)
	}

	rec, env := doRequest(t, engine, http.MethodPost, base+"/seats/3A/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", rec.Code)
	}
	var toggled ToggleSeatResponse
	json.Unmarshal(env.Data, &toggled)
	if toggled.Outcome != "added" || len(toggled.Session.Passengers) != 2 {
		t.Fatalf("unexpected toggle response %+v", toggled)
	}

	// reserved seats are rejected without an error status
	rec, env = doRequest(t, engine, http.MethodPost, base+"/seats/1B/toggle", nil)
	json.Unmarshal(env.Data, &toggled)
	if rec.Code != http.StatusOK || toggled.Outcome != "reserved" {
		t.Fatalf("reserved toggle: %d %s", rec.Code, toggled.Outcome)
	}

	rec, env = doRequest(t, engine, http.MethodPost, base+"/continue", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("continue: expected 422, got %d", rec.Code)
	}
	var verr struct {
		Field     string `json:"field"`
		SeatLabel string `json:"seat_label"`
	}
	json.Unmarshal(env.Errors, &verr)
	if verr.Field != "name" {
		t.Fatalf("expected name field, got %s", env.Errors)
	}

	rec, _ = doRequest(t, engine, http.MethodPatch, base+"/passengers/missing", map[string]string{"name": "Ana"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown passenger: expected 404, got %d", rec.Code)
	}

	rec, _ = doRequest(t, engine, http.MethodPut, base+"/contact", map[string]string{"phone": "555", "email": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: expected 400, got %d", rec.Code)
	}

	rec, _ = doRequest(t, engine, http.MethodPost, base+"/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", rec.Code)
	}

	rec, _ = doRequest(t, engine, http.MethodDelete, base, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d", rec.Code)
	}
	rec, _ = doRequest(t, engine, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after close: expected 404, got %d", rec.Code)
	}
}

func TestSubmitAndPaymentContext(t *testing.T) {
	engine, manager := newTestEngine(t)
	view := openSession(t, engine)
	base := "/api/v1/sessions/" + view.ID

	session, _ := manager.Get(view.ID)
	fillForm(t, session)

	rec, _ := doRequest(t, engine, http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec, _ = doRequest(t, engine, http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("resubmit: expected 409, got %d", rec.Code)
	}

	rec, _ = doRequest(t, engine, http.MethodGet, "/api/v1/payment-context/BK-GUEST", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous payment context read: expected 401, got %d", rec.Code)
	}
	rec, _ = doRequestAs(t, engine, "user-2", http.MethodGet, "/api/v1/payment-context/BK-GUEST", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("guest booking read by another user: expected 404, got %d", rec.Code)
	}

	rec, env := doRequest(t, engine, http.MethodPost, "/api/v1/payment-context/BK-GUEST", map[string]string{"phone": " 555 "})
	if rec.Code != http.StatusOK {
		t.Fatalf("payment context: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var paymentCtx PaymentContext
	json.Unmarshal(env.Data, &paymentCtx)
	if paymentCtx.SessionID != view.ID || paymentCtx.SeatCount != 1 {
		t.Fatalf("unexpected payment context %+v", paymentCtx)
	}

	rec, _ = doRequest(t, engine, http.MethodPost, "/api/v1/payment-context/BK-GUEST", map[string]string{"email": "ANA@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("email match: expected 200, got %d", rec.Code)
	}
	rec, _ = doRequest(t, engine, http.MethodPost, "/api/v1/payment-context/BK-GUEST", map[string]string{"phone": "999"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrong phone: expected 404, got %d", rec.Code)
	}
	rec, _ = doRequest(t, engine, http.MethodPost, "/api/v1/payment-context/BK-GUEST", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing contact: expected 400, got %d", rec.Code)
	}
	rec, _ = doRequest(t, engine, http.MethodPost, "/api/v1/payment-context/BK-NONE", map[string]string{"phone": "555"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing payment context: expected 404, got %d", rec.Code)
	}
}

func TestPaymentContextOwnerRead(t *testing.T) {
	engine, manager := newTestEngine(t)
	view := openSession(t, engine)

	session, _ := manager.Get(view.ID)
	fillForm(t, session)

	rec, _ := doRequestAs(t, engine, "user-1", http.MethodPost, "/api/v1/sessions/"+view.ID+"/submit", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, env := doRequestAs(t, engine, "user-1", http.MethodGet, "/api/v1/payment-context/BK-USER", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner read: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var paymentCtx PaymentContext
	json.Unmarshal(env.Data, &paymentCtx)
	if paymentCtx.OwnerID != "user-1" || paymentCtx.Guest {
		t.Fatalf("unexpected payment context %+v", paymentCtx)
	}

	rec, _ = doRequestAs(t, engine, "user-2", http.MethodGet, "/api/v1/payment-context/BK-USER", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other user read: expected 404, got %d", rec.Code)
	}
}
