package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"busdesk/internal/shared/middleware"
	"busdesk/internal/upstream"

	"github.com/gin-gonic/gin"
)

type stubService struct {
	guest     CreateSessionPayload
	token     string
	statusErr error
}

func (s *stubService) CreateSession(ctx context.Context, creds upstream.Credentials, payload CreateSessionPayload) (*PaymentSession, error) {
	s.token = creds.AccessToken
	return &PaymentSession{PaymentID: "pay-1", BookingReference: payload.BookingReference, Status: StatusPending}, nil
}

func (s *stubService) CreateGuestSession(ctx context.Context, payload CreateSessionPayload) (*PaymentSession, error) {
	s.guest = payload
	return &PaymentSession{PaymentID: "pay-2", BookingReference: payload.BookingReference, Status: StatusPending}, nil
}

func (s *stubService) GetStatus(ctx context.Context, creds upstream.Credentials, paymentID string) (*PaymentSession, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &PaymentSession{PaymentID: paymentID, Status: StatusSucceeded}, nil
}

func newTestEngine(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	auth := func(c *gin.Context) {
		c.Set(middleware.ContextKeyAccessToken, "tok")
		c.Next()
	}
	pass := func(c *gin.Context) { c.Next() }
	SetupPaymentRoutes(engine.Group("/api/v1"), NewController(svc), auth, pass)
	return engine
}

func post(engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return rec
}

func TestCreateSessionForwardsToken(t *testing.T) {
	svc := &stubService{}
	engine := newTestEngine(svc)

	rec := post(engine, "/api/v1/payments/session", map[string]string{
		"bookingReference": "BK-1",
		"successUrl":       "https://busdesk.example.com/paid",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.token != "tok" {
		t.Fatalf("token not forwarded: %q", svc.token)
	}
}

func TestCreateGuestSession(t *testing.T) {
	svc := &stubService{}
	engine := newTestEngine(svc)

	rec := post(engine, "/api/v1/payments/session/guest", map[string]string{
		"bookingReference": "BK-2",
		"successUrl":       "https://busdesk.example.com/paid",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without contact, got %d", rec.Code)
	}

	rec = post(engine, "/api/v1/payments/session/guest", map[string]string{
		"bookingReference": "BK-2",
		"successUrl":       "https://busdesk.example.com/paid",
		"email":            "ana@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.guest.Contact == nil || svc.guest.Contact.Email != "ana@example.com" {
		t.Fatalf("contact not forwarded: %+v", svc.guest)
	}
}

func TestGetStatus(t *testing.T) {
	engine := newTestEngine(&stubService{})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/pay-7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data PaymentSession `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Data.PaymentID != "pay-7" || env.Data.Status != StatusSucceeded {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	engine = newTestEngine(&stubService{statusErr: &upstream.APIError{StatusCode: http.StatusNotFound, Message: "Payment not found"}})
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/pay-7", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
