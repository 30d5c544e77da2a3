package bookings

import (
	"time"

	"busdesk/internal/seats"
)

// CreateBookingPayload is the draft handed to the booking service
type CreateBookingPayload struct {
	Route          string                     `json:"route"`
	TravelDate     string                     `json:"travelDate"`
	Arrival        string                     `json:"arrival,omitempty"`
	SeatType       string                     `json:"seatType,omitempty"`
	SeatCount      int                        `json:"seatCount"`
	PricePerTicket float64                    `json:"pricePerTicket"`
	Contact        seats.ContactInfo          `json:"contact"`
	Passengers     []seats.PassengerFormState `json:"passengers"`
	Terminal       string                     `json:"terminal,omitempty"`
	Company        string                     `json:"company,omitempty"`
	BusPlate       string                     `json:"busPlate,omitempty"`
}

// CreateBookingResult is what the booking service returns for a new booking
type CreateBookingResult struct {
	BookingReference string     `json:"bookingReference"`
	Total            float64    `json:"total"`
	Currency         string     `json:"currency"`
	Status           Status     `json:"status"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// BookingRecord is a stored booking as the booking service reports it
type BookingRecord struct {
	BookingReference string                     `json:"bookingReference"`
	UserID           *string                    `json:"userId,omitempty"`
	Route            string                     `json:"route"`
	TravelDate       string                     `json:"travelDate"`
	Arrival          string                     `json:"arrival,omitempty"`
	SeatType         string                     `json:"seatType,omitempty"`
	SeatCount        int                        `json:"seatCount"`
	PricePerTicket   float64                    `json:"pricePerTicket"`
	Total            float64                    `json:"total"`
	Currency         string                     `json:"currency"`
	Terminal         string                     `json:"terminal,omitempty"`
	Company          string                     `json:"company,omitempty"`
	BusPlate         string                     `json:"busPlate,omitempty"`
	Contact          seats.ContactInfo          `json:"contact"`
	Passengers       []seats.PassengerFormState `json:"passengers"`
	Status           Status                     `json:"status"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
	ExpiresAt        *time.Time                 `json:"expiresAt,omitempty"`
}

// ContactVerification proves a guest owns a booking
type ContactVerification struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// GuestLookupPayload finds a guest booking by reference and contact
type GuestLookupPayload struct {
	BookingReference string              `json:"bookingReference"`
	Contact          ContactVerification `json:"contact"`
}
