package payments

import (
	"time"

	"busdesk/internal/bookings"
)

// PaymentSession is a checkout opened with the payment provider for a booking
type PaymentSession struct {
	PaymentID        string     `json:"paymentId"`
	BookingReference string     `json:"bookingReference"`
	Status           Status     `json:"status"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	CheckoutURL      string     `json:"checkoutUrl"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// CreateSessionPayload asks the booking service for a checkout. Contact is
// only sent for guest bookings.
type CreateSessionPayload struct {
	BookingReference string                        `json:"bookingReference"`
	SuccessURL       string                        `json:"successUrl"`
	CancelURL        string                        `json:"cancelUrl,omitempty"`
	Contact          *bookings.ContactVerification `json:"contact,omitempty"`
}
