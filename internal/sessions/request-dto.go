package sessions

import "busdesk/internal/seats"

type OpenSessionRequest struct {
	Trip             Trip                       `json:"trip"`
	SeatCount        int                        `json:"seatCount" binding:"gte=0,lte=60"`
	Passengers       []seats.PassengerFormState `json:"passengers"`
	Contact          seats.ContactInfo          `json:"contact"`
	BookingReference string                     `json:"bookingReference"`
}

type ContactRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

type PaymentContextLookupRequest struct {
	Phone string `json:"phone" binding:"required_without=Email"`
	Email string `json:"email" binding:"omitempty,email"`
}

type ToggleSeatResponse struct {
	Outcome seats.ToggleOutcome `json:"outcome"`
	Session View                `json:"session"`
}

type UpdatePassengerResponse struct {
	Passenger seats.PassengerFormState `json:"passenger"`
	Session   View                     `json:"session"`
}
