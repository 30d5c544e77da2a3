package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"busdesk/internal/bookings"
	"busdesk/internal/upstream"
)

var (
	ErrMissingReference = errors.New("booking reference is required")
	ErrMissingPaymentID = errors.New("payment id is required")
	ErrMissingContact   = errors.New("guest payments need the booking phone or email")
)

// Service opens checkouts and reports payment status through the booking service
type Service interface {
	CreateSession(ctx context.Context, creds upstream.Credentials, payload CreateSessionPayload) (*PaymentSession, error)
	CreateGuestSession(ctx context.Context, payload CreateSessionPayload) (*PaymentSession, error)
	GetStatus(ctx context.Context, creds upstream.Credentials, paymentID string) (*PaymentSession, error)
}

type service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return &service{api: api}
}

func (s *service) CreateSession(ctx context.Context, creds upstream.Credentials, payload CreateSessionPayload) (*PaymentSession, error) {
	if strings.TrimSpace(payload.BookingReference) == "" {
		return nil, ErrMissingReference
	}
	payload.Contact = nil

	var session PaymentSession
	if err := s.api.Post(ctx, creds, "/payments/session", payload, &session); err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}
	return &session, nil
}

func (s *service) CreateGuestSession(ctx context.Context, payload CreateSessionPayload) (*PaymentSession, error) {
	if strings.TrimSpace(payload.BookingReference) == "" {
		return nil, ErrMissingReference
	}
	if !hasContact(payload.Contact) {
		return nil, ErrMissingContact
	}

	var session PaymentSession
	if err := s.api.Post(ctx, upstream.Credentials{}, "/payments/session/guest", payload, &session); err != nil {
		return nil, fmt.Errorf("failed to create guest payment session: %w", err)
	}
	return &session, nil
}

func (s *service) GetStatus(ctx context.Context, creds upstream.Credentials, paymentID string) (*PaymentSession, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrMissingPaymentID
	}

	var session PaymentSession
	if err := s.api.Get(ctx, creds, "/payments/"+url.PathEscape(paymentID), nil, &session); err != nil {
		return nil, fmt.Errorf("failed to get payment status: %w", err)
	}
	return &session, nil
}

func hasContact(contact *bookings.ContactVerification) bool {
	return contact != nil && (strings.TrimSpace(contact.Phone) != "" || strings.TrimSpace(contact.Email) != "")
}
