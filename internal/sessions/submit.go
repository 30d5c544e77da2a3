package sessions

import (
	"context"
	"log/slog"

	"busdesk/internal/bookings"
	"busdesk/internal/seats"
	"busdesk/internal/shared/constants"
	"busdesk/pkg/logger"
)

// Submit validates the draft and hands it to the booking service. Guests go
// through the guest endpoint. On success the payment context is mirrored to
// the cache for the payment redirect.
func (m *Manager) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	payload, creds, err := session.beginSubmit()
	if err != nil {
		return nil, err
	}

	guest := creds.IsGuest()
	var result *bookings.CreateBookingResult
	if guest {
		result, err = m.bookings.CreateGuestBooking(ctx, payload)
	} else {
		result, err = m.bookings.CreateBooking(ctx, creds, payload)
	}
	if err != nil {
		session.endSubmit("", err)
		return nil, err
	}
	session.endSubmit(result.BookingReference, nil)

	trip := session.currentTrip()
	paymentCtx := &PaymentContext{
		BookingReference: result.BookingReference,
		SessionID:        session.ID(),
		Trip:             trip,
		SeatCount:        payload.SeatCount,
		Passengers:       payload.Passengers,
		Contact:          payload.Contact,
		Total:            result.Total,
		Currency:         result.Currency,
		Status:           result.Status,
		ExpiresAt:        result.ExpiresAt,
		Guest:            guest,
		OwnerID:          creds.UserID,
	}

	key := constants.BuildPaymentContextKey(result.BookingReference)
	if err := m.cache.Set(ctx, key, paymentCtx, m.config.PaymentContextTTL); err != nil {
		logger.GetDefault().WarnContext(ctx, "failed to mirror payment context",
			slog.String("booking_reference", result.BookingReference),
			slog.Any("error", err),
		)
	}

	logger.GetDefault().LogBookingSubmitted(ctx, session.ID(), result.BookingReference, guest)
	if err := m.publisher.PublishBookingSubmitted(ctx, session.ID(), trip.ref(), result.BookingReference, seatLabels(payload.Passengers), guest); err != nil {
		logger.GetDefault().WithSessionID(session.ID()).WarnContext(ctx, "failed to publish booking submitted event",
			slog.Any("error", err),
		)
	}

	return &SubmitResult{Booking: result, PaymentContext: paymentCtx}, nil
}

func seatLabels(passengers []seats.PassengerFormState) []string {
	labels := make([]string, 0, len(passengers))
	for _, p := range passengers {
		labels = append(labels, p.SeatLabel)
	}
	return labels
}
