package availability

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"busdesk/internal/upstream"

	"github.com/go-playground/validator/v10"
)

const availabilityPath = "/bookings/availability"

var ErrMissingTrip = errors.New("route and travel date are required")

// Client fetches seat locks for a trip from the booking service
type Client interface {
	GetSeatAvailability(ctx context.Context, creds upstream.Credentials, q Query) (*Snapshot, error)
}

type client struct {
	api      *upstream.Client
	validate *validator.Validate
}

func NewClient(api *upstream.Client) Client {
	return &client{
		api:      api,
		validate: validator.New(),
	}
}

// GetSeatAvailability returns the current snapshot. Any error means "no new
// information"; callers keep whatever snapshot they had.
func (c *client) GetSeatAvailability(ctx context.Context, creds upstream.Credentials, q Query) (*Snapshot, error) {
	if strings.TrimSpace(q.Route) == "" || strings.TrimSpace(q.TravelDate) == "" {
		return nil, ErrMissingTrip
	}

	params := url.Values{}
	params.Set("route", q.Route)
	params.Set("travelDate", q.TravelDate)
	if q.BusPlate != "" {
		params.Set("busPlate", q.BusPlate)
	}
	if q.SeatType != "" {
		params.Set("seatType", q.SeatType)
	}

	var snapshot Snapshot
	if err := c.api.Get(ctx, creds, availabilityPath, params, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to fetch seat availability: %w", err)
	}
	if err := c.validate.Struct(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
	}
	return &snapshot, nil
}
