package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busdesk/internal/bookings"
	"busdesk/internal/upstream"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(upstream.NewClient(srv.URL, time.Second))
}

const sessionBody = `{"success":true,"data":{"paymentId":"pay 1","bookingReference":"BK-1","status":"pending","amount":150000,"currency":"IDR","checkoutUrl":"https://pay.example.com/c/1"}}`

func TestCreateSessionRoutesByCredentials(t *testing.T) {
	var calls []string
	var bodies []map[string]interface{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		w.Write([]byte(sessionBody))
	})
	ctx := context.Background()
	payload := CreateSessionPayload{
		BookingReference: "BK-1",
		SuccessURL:       "https://busdesk.example.com/paid",
		Contact:          &bookings.ContactVerification{Phone: "555"},
	}

	session, err := svc.CreateSession(ctx, upstream.Credentials{AccessToken: "tok"}, payload)
	if err != nil || session.CheckoutURL == "" || session.Status != StatusPending {
		t.Fatalf("create failed: %v %+v", err, session)
	}
	if _, err := svc.CreateGuestSession(ctx, payload); err != nil {
		t.Fatalf("guest create failed: %v", err)
	}

	want := []string{"POST /payments/session Bearer tok", "POST /payments/session/guest "}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("unexpected calls %q", calls)
	}
	if _, ok := bodies[0]["contact"]; ok {
		t.Fatalf("contact sent for a signed-in payment: %v", bodies[0])
	}
	if contact, ok := bodies[1]["contact"].(map[string]interface{}); !ok || contact["phone"] != "555" {
		t.Fatalf("guest contact missing: %v", bodies[1])
	}
}

func TestCreateGuestSessionNeedsContact(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	})
	ctx := context.Background()

	_, err := svc.CreateGuestSession(ctx, CreateSessionPayload{BookingReference: "BK-1", Contact: &bookings.ContactVerification{Phone: "  "}})
	if !errors.Is(err, ErrMissingContact) {
		t.Fatalf("expected ErrMissingContact, got %v", err)
	}
	if _, err := svc.CreateSession(ctx, upstream.Credentials{}, CreateSessionPayload{BookingReference: " "}); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if _, err := svc.GetStatus(ctx, upstream.Credentials{}, ""); !errors.Is(err, ErrMissingPaymentID) {
		t.Fatalf("expected ErrMissingPaymentID, got %v", err)
	}
}

func TestGetStatusEscapesID(t *testing.T) {
	var seen string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Method + " " + r.URL.EscapedPath()
		w.Write([]byte(`{"success":true,"data":{"paymentId":"pay 1","status":"succeeded"}}`))
	})

	session, err := svc.GetStatus(context.Background(), upstream.Credentials{}, "pay 1")
	if err != nil || !session.Status.IsFinal() {
		t.Fatalf("status failed: %v %+v", err, session)
	}
	if seen != "GET /payments/pay%201" {
		t.Fatalf("unexpected call %q", seen)
	}
}

func TestGetStatusUpstreamError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Payment not found"}`))
	})

	_, err := svc.GetStatus(context.Background(), upstream.Credentials{}, "pay-9")
	if upstream.HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("expected upstream 404, got %v", err)
	}
}
