package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeSeatsReclaimed   EventType = "seats.reclaimed"
	EventTypeBookingSubmitted EventType = "booking.submitted"
)

// TripRef identifies the trip an event belongs to
type TripRef struct {
	Route      string `json:"route"`
	TravelDate string `json:"travel_date"`
	BusPlate   string `json:"bus_plate,omitempty"`
	SeatType   string `json:"seat_type,omitempty"`
}

// BookingEvent is published whenever a booking session changes in a way
// other services care about
type BookingEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Trip      TripRef   `json:"trip"`

	SeatIDs          []string `json:"seat_ids"`
	BookingReference string   `json:"booking_reference,omitempty"`
	Guest            bool     `json:"guest,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventBuilder struct {
	event *BookingEvent
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		event: &BookingEvent{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			SeatIDs:   []string{},
		},
	}
}

func (eb *EventBuilder) WithType(eventType EventType) *EventBuilder {
	eb.event.Type = eventType
	return eb
}

func (eb *EventBuilder) WithSession(sessionID string) *EventBuilder {
	eb.event.SessionID = sessionID
	return eb
}

func (eb *EventBuilder) WithTrip(trip TripRef) *EventBuilder {
	eb.event.Trip = trip
	return eb
}

func (eb *EventBuilder) WithSeats(seatIDs []string) *EventBuilder {
	eb.event.SeatIDs = append([]string{}, seatIDs...)
	return eb
}

func (eb *EventBuilder) WithBooking(reference string, guest bool) *EventBuilder {
	eb.event.BookingReference = reference
	eb.event.Guest = guest
	return eb
}

func (eb *EventBuilder) Build() *BookingEvent {
	return eb.event
}

// GetPartitionKey keeps every event of one session on the same partition
func (e *BookingEvent) GetPartitionKey() string {
	return e.SessionID
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
