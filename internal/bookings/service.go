package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"busdesk/internal/upstream"
)

var ErrMissingReference = errors.New("booking reference is required")

// Service hands drafts to the booking service and manages what it stored
type Service interface {
	CreateBooking(ctx context.Context, creds upstream.Credentials, payload CreateBookingPayload) (*CreateBookingResult, error)
	CreateGuestBooking(ctx context.Context, payload CreateBookingPayload) (*CreateBookingResult, error)
	ConfirmBooking(ctx context.Context, creds upstream.Credentials, reference string) (*BookingRecord, error)
	ConfirmGuestBooking(ctx context.Context, reference string, contact ContactVerification) (*BookingRecord, error)
	ListBookings(ctx context.Context, creds upstream.Credentials) ([]BookingRecord, error)
	CancelBooking(ctx context.Context, creds upstream.Credentials, reference string) (*BookingRecord, error)
	LookupGuestBooking(ctx context.Context, payload GuestLookupPayload) (*BookingRecord, error)
}

type service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return &service{api: api}
}

func (s *service) CreateBooking(ctx context.Context, creds upstream.Credentials, payload CreateBookingPayload) (*CreateBookingResult, error) {
	var result CreateBookingResult
	if err := s.api.Post(ctx, creds, "/bookings", payload, &result); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &result, nil
}

func (s *service) CreateGuestBooking(ctx context.Context, payload CreateBookingPayload) (*CreateBookingResult, error) {
	var result CreateBookingResult
	if err := s.api.Post(ctx, upstream.Credentials{}, "/bookings/guest", payload, &result); err != nil {
		return nil, fmt.Errorf("failed to create guest booking: %w", err)
	}
	return &result, nil
}

func (s *service) ConfirmBooking(ctx context.Context, creds upstream.Credentials, reference string) (*BookingRecord, error) {
	path, err := referencePath(reference, "confirm")
	if err != nil {
		return nil, err
	}
	var record BookingRecord
	if err := s.api.Patch(ctx, creds, path, nil, &record); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	return &record, nil
}

func (s *service) ConfirmGuestBooking(ctx context.Context, reference string, contact ContactVerification) (*BookingRecord, error) {
	path, err := referencePath(reference, "guest-confirm")
	if err != nil {
		return nil, err
	}
	var record BookingRecord
	if err := s.api.Patch(ctx, upstream.Credentials{}, path, contact, &record); err != nil {
		return nil, fmt.Errorf("failed to confirm guest booking: %w", err)
	}
	return &record, nil
}

func (s *service) ListBookings(ctx context.Context, creds upstream.Credentials) ([]BookingRecord, error) {
	records := []BookingRecord{}
	if err := s.api.Get(ctx, creds, "/bookings", nil, &records); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return records, nil
}

func (s *service) CancelBooking(ctx context.Context, creds upstream.Credentials, reference string) (*BookingRecord, error) {
	path, err := referencePath(reference, "cancel")
	if err != nil {
		return nil, err
	}
	var record BookingRecord
	if err := s.api.Patch(ctx, creds, path, nil, &record); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return &record, nil
}

func (s *service) LookupGuestBooking(ctx context.Context, payload GuestLookupPayload) (*BookingRecord, error) {
	if strings.TrimSpace(payload.BookingReference) == "" {
		return nil, ErrMissingReference
	}
	var record BookingRecord
	if err := s.api.Post(ctx, upstream.Credentials{}, "/bookings/lookup", payload, &record); err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	return &record, nil
}

func referencePath(reference, action string) (string, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", ErrMissingReference
	}
	return "/bookings/" + url.PathEscape(reference) + "/" + action, nil
}
