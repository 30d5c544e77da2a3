package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busdesk/internal/seats"
	"busdesk/internal/upstream"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(upstream.NewClient(srv.URL, time.Second))
}

func TestCreateBookingRoutesByCredentials(t *testing.T) {
	var paths []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		var payload CreateBookingPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.SeatCount != 1 || payload.Passengers[0].SeatLabel != "1A" {
			t.Errorf("unexpected payload %+v (%v)", payload, err)
		}
		w.Write([]byte(`{"success":true,"data":{"bookingReference":"BK-1","total":150000,"currency":"IDR","status":"pending"}}`))
	})

	payload := CreateBookingPayload{
		Route:      "Jakarta-Bandung",
		TravelDate: "2026-11-02",
		SeatCount:  1,
		Passengers: []seats.PassengerFormState{{ID: "p1", Name: "Ana", SeatLabel: "1A"}},
		Contact:    seats.ContactInfo{Phone: "555"},
	}

	result, err := svc.CreateBooking(context.Background(), upstream.Credentials{AccessToken: "tok"}, payload)
	if err != nil || result.BookingReference != "BK-1" || !result.Status.AwaitsPayment() {
		t.Fatalf("create failed: %v %+v", err, result)
	}
	if _, err := svc.CreateGuestBooking(context.Background(), payload); err != nil {
		t.Fatalf("guest create failed: %v", err)
	}

	want := []string{"POST /bookings Bearer tok", "POST /bookings/guest "}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("unexpected calls %q", paths)
	}
}

func TestReferenceActions(t *testing.T) {
	var seen []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		w.Write([]byte(`{"success":true,"data":{"bookingReference":"BK 1","status":"confirmed"}}`))
	})
	ctx := context.Background()
	creds := upstream.Credentials{AccessToken: "tok"}

	if _, err := svc.ConfirmBooking(ctx, creds, "BK 1"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.CancelBooking(ctx, creds, "BK 1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.ConfirmGuestBooking(ctx, "BK 1", ContactVerification{Phone: "555"}); err != nil {
		t.Fatalf("guest confirm failed: %v", err)
	}
	want := []string{
		"PATCH /bookings/BK%201/confirm",
		"PATCH /bookings/BK%201/cancel",
		"PATCH /bookings/BK%201/guest-confirm",
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], seen[i])
		}
	}

	if _, err := svc.CancelBooking(ctx, creds, "  "); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected missing reference, got %v", err)
	}
}

func TestListBookingsRelaysUpstreamError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":{"message":"Token expired"}}`))
	})

	_, err := svc.ListBookings(context.Background(), upstream.Credentials{AccessToken: "old"})
	if upstream.StatusCode(err) != http.StatusUnauthorized || upstream.Message(err, "") != "Token expired" {
		t.Fatalf("upstream error not preserved: %v", err)
	}
}
