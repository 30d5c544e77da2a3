package seats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"busdesk/internal/shared/constants"
	"busdesk/pkg/cache"
	"busdesk/pkg/logger"

	"gorm.io/gorm"
)

// LayoutService resolves which coach layout a trip uses
type LayoutService interface {
	Resolve(ctx context.Context, busPlate, seatType string) Layout
	Save(ctx context.Context, busPlate, seatType, name string, layout Layout) error
	Delete(ctx context.Context, busPlate, seatType string) error
}

var (
	errLayoutNotStored  = errors.New("no coach layout stored")
	errStoreUnavailable = errors.New("layout store not configured")
)

type layoutService struct {
	repo         Repository
	cacheService cache.Service
	ttl          time.Duration
}

// NewLayoutService builds the resolver. repo and cacheService may be nil, in
// which case every trip gets the default layout.
func NewLayoutService(repo Repository, cacheService cache.Service, ttl time.Duration) LayoutService {
	if ttl <= 0 {
		ttl = constants.TTL_LAYOUT
	}
	return &layoutService{
		repo:         repo,
		cacheService: cacheService,
		ttl:          ttl,
	}
}

// Resolve looks up bus plate + seat type, then bus plate alone, then falls
// back to the default layout. Store failures never block a booking.
func (s *layoutService) Resolve(ctx context.Context, busPlate, seatType string) Layout {
	if busPlate == "" || s.repo == nil {
		return DefaultLayout()
	}

	fetch := func(ctx context.Context) (interface{}, error) {
		return s.load(ctx, busPlate, seatType)
	}

	var layout Layout
	var err error
	if s.cacheService != nil {
		err = s.cacheService.GetOrSet(ctx, constants.BuildLayoutKey(busPlate, seatType), s.ttl, fetch, &layout)
	} else {
		layout, err = s.load(ctx, busPlate, seatType)
	}
	if err != nil {
		if !errors.Is(err, errLayoutNotStored) {
			logger.GetDefault().Warn("failed to load coach layout, using default",
				slog.String("bus_plate", busPlate),
				slog.Any("error", err),
			)
		}
		return DefaultLayout()
	}
	if len(layout) == 0 {
		return DefaultLayout()
	}
	return layout
}

func (s *layoutService) load(ctx context.Context, busPlate, seatType string) (Layout, error) {
	candidates := []string{seatType}
	if seatType != "" {
		candidates = append(candidates, "")
	}

	for _, candidate := range candidates {
		stored, err := s.repo.FindLayout(ctx, busPlate, candidate)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if layout := stored.ToLayout(); len(layout) > 0 {
			return layout, nil
		}
	}
	return nil, errLayoutNotStored
}

// Save stores a layout and drops every cached layout for the bus plate, since
// a plate-wide layout also backs seat types without their own.
func (s *layoutService) Save(ctx context.Context, busPlate, seatType, name string, layout Layout) error {
	if s.repo == nil {
		return errStoreUnavailable
	}
	if err := s.repo.SaveLayout(ctx, NewCoachLayout(busPlate, seatType, name, layout)); err != nil {
		return err
	}
	s.invalidate(ctx, busPlate)
	return nil
}

// Delete removes a stored layout; trips on the plate fall back again
func (s *layoutService) Delete(ctx context.Context, busPlate, seatType string) error {
	if s.repo == nil {
		return errStoreUnavailable
	}
	if err := s.repo.DeleteLayout(ctx, busPlate, seatType); err != nil {
		return err
	}
	s.invalidate(ctx, busPlate)
	return nil
}

func (s *layoutService) invalidate(ctx context.Context, busPlate string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.BuildLayoutKey(busPlate, "*")); err != nil {
		logger.GetDefault().Warn("failed to invalidate cached coach layouts",
			slog.String("bus_plate", busPlate),
			slog.Any("error", err),
		)
	}
}
