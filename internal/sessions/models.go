package sessions

import (
	"errors"
	"strings"
	"time"

	"busdesk/internal/availability"
	"busdesk/internal/bookings"
	"busdesk/internal/notifications"
	"busdesk/internal/seats"
	"busdesk/internal/upstream"
)

const (
	MessageSeatsReclaimed = "Some seats you selected were just reserved. Please choose again."
	MessageSyncFailed     = "Unable to update seat availability. Please try again."
)

var (
	ErrSessionNotFound  = errors.New("booking session not found")
	ErrSessionClosed    = errors.New("booking session is closed")
	ErrAlreadySubmitted = errors.New("booking session was already submitted")
	ErrPassengerUnknown = errors.New("passenger not found in this session")
)

type SyncState string

const (
	SyncStateIdle    SyncState = "idle"
	SyncStateSyncing SyncState = "syncing"
	SyncStateSynced  SyncState = "synced"
	SyncStateError   SyncState = "error"
)

// SyncMode says who asked for a sync. Only visible syncs flip the loading flag.
type SyncMode string

const (
	SyncSilent  SyncMode = "silent"
	SyncManual  SyncMode = "manual"
	SyncInitial SyncMode = "initial"
)

func (m SyncMode) visible() bool {
	return m == SyncManual || m == SyncInitial
}

// Trip is the journey a booking session is drafting seats for
type Trip struct {
	Route          string  `json:"route" binding:"required"`
	TravelDate     string  `json:"travelDate" binding:"required"`
	Arrival        string  `json:"arrival,omitempty"`
	BusPlate       string  `json:"busPlate,omitempty"`
	SeatType       string  `json:"seatType,omitempty"`
	Terminal       string  `json:"terminal,omitempty"`
	Company        string  `json:"company,omitempty"`
	PricePerTicket float64 `json:"pricePerTicket" binding:"gte=0"`
}

func (t Trip) query() availability.Query {
	return availability.Query{
		Route:      t.Route,
		TravelDate: t.TravelDate,
		BusPlate:   t.BusPlate,
		SeatType:   t.SeatType,
	}
}

func (t Trip) ref() notifications.TripRef {
	return notifications.TripRef{
		Route:      t.Route,
		TravelDate: t.TravelDate,
		BusPlate:   t.BusPlate,
		SeatType:   t.SeatType,
	}
}

func (t Trip) complete() bool {
	return t.Route != "" && t.TravelDate != ""
}

// Options seed a new booking session
type Options struct {
	Trip             Trip
	SeatCount        int
	Passengers       []seats.PassengerFormState
	Contact          seats.ContactInfo
	Credentials      upstream.Credentials
	BookingReference string
}

// View is everything a thin client needs to draw the passenger step
type View struct {
	ID                string                     `json:"id"`
	Trip              Trip                       `json:"trip"`
	SeatMap           seats.SeatMapView          `json:"seat_map"`
	Passengers        []seats.PassengerFormState `json:"passengers"`
	Contact           seats.ContactInfo          `json:"contact"`
	ReservedSeatIDs   []string                   `json:"reserved_seat_ids"`
	SyncState         SyncState                  `json:"sync_state"`
	Loading           bool                       `json:"loading"`
	LastSyncedAt      *time.Time                 `json:"last_synced_at,omitempty"`
	AvailabilityError string                     `json:"availability_error,omitempty"`
	Notices           []string                   `json:"notices,omitempty"`
	Guest             bool                       `json:"guest"`
	Total             float64                    `json:"total"`
	BookingReference  string                     `json:"booking_reference,omitempty"`
}

// PaymentContext is mirrored to the cache so the payment redirect can
// resume without the session
type PaymentContext struct {
	BookingReference string                     `json:"bookingReference"`
	SessionID        string                     `json:"sessionId"`
	Trip             Trip                       `json:"trip"`
	SeatCount        int                        `json:"seatCount"`
	Passengers       []seats.PassengerFormState `json:"passengers"`
	Contact          seats.ContactInfo          `json:"contact"`
	Total            float64                    `json:"total"`
	Currency         string                     `json:"currency"`
	Status           bookings.Status            `json:"status"`
	ExpiresAt        *time.Time                 `json:"expiresAt,omitempty"`
	Guest            bool                       `json:"guest"`
	OwnerID          string                     `json:"ownerId,omitempty"`
}

// OwnedBy reports whether userID submitted the booking
func (p *PaymentContext) OwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// MatchesContact checks a guest's phone or email against the booking contact
func (p *PaymentContext) MatchesContact(phone, email string) bool {
	phone, email = strings.TrimSpace(phone), strings.TrimSpace(email)
	if phone != "" && phone == strings.TrimSpace(p.Contact.Phone) {
		return true
	}
	return email != "" && strings.EqualFold(email, strings.TrimSpace(p.Contact.Email))
}

// SubmitResult is returned once the booking service accepted the draft
type SubmitResult struct {
	Booking        *bookings.CreateBookingResult `json:"booking"`
	PaymentContext *PaymentContext               `json:"payment_context"`
}
