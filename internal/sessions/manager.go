package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"busdesk/internal/availability"
	"busdesk/internal/bookings"
	"busdesk/internal/notifications"
	"busdesk/internal/seats"
	"busdesk/internal/shared/constants"
	"busdesk/pkg/cache"
	"busdesk/pkg/logger"

	"github.com/google/uuid"
)

// ManagerConfig controls session lifetimes
type ManagerConfig struct {
	PollInterval      time.Duration
	DefaultTickets    int
	PaymentContextTTL time.Duration
}

type managedSession struct {
	session *Session
	syncer  *Syncer
	cancel  context.CancelFunc
}

// Manager owns every open booking session and its poll loop
type Manager struct {
	config    ManagerConfig
	layouts   seats.LayoutService
	fetcher   availability.Client
	bookings  bookings.Service
	publisher notifications.Publisher
	cache     cache.Service

	mu       sync.RWMutex
	sessions map[string]*managedSession
	baseCtx  context.Context
	stop     context.CancelFunc
	now      func() time.Time
}

func NewManager(config ManagerConfig, layouts seats.LayoutService, fetcher availability.Client, bookingService bookings.Service, publisher notifications.Publisher, cacheService cache.Service) *Manager {
	if config.PaymentContextTTL <= 0 {
		config.PaymentContextTTL = constants.TTL_PAYMENT_CONTEXT
	}
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	if cacheService == nil {
		cacheService = cache.NewMemoryService()
	}

	baseCtx, stop := context.WithCancel(context.Background())
	return &Manager{
		config:    config,
		layouts:   layouts,
		fetcher:   fetcher,
		bookings:  bookingService,
		publisher: publisher,
		cache:     cacheService,
		sessions:  make(map[string]*managedSession),
		baseCtx:   baseCtx,
		stop:      stop,
		now:       time.Now,
	}
}

// Open starts a session, runs its first sync and starts polling
func (m *Manager) Open(ctx context.Context, opts Options) (*Session, error) {
	layout := m.layouts.Resolve(ctx, opts.Trip.BusPlate, opts.Trip.SeatType)

	session := newSession(uuid.NewString(), layout, opts, m.config.DefaultTickets, m.fetcher, m.publisher)
	session.now = m.now
	session.lastActive = m.now()

	// the first snapshot is part of the response; failures show inline
	_ = session.Sync(ctx, SyncInitial)

	pollCtx, cancel := context.WithCancel(m.baseCtx)
	syncer := NewSyncer(session, m.config.PollInterval)

	m.mu.Lock()
	if m.baseCtx.Err() != nil {
		m.mu.Unlock()
		cancel()
		session.Close()
		return nil, ErrSessionClosed
	}
	m.sessions[session.ID()] = &managedSession{session: session, syncer: syncer, cancel: cancel}
	m.mu.Unlock()

	syncer.Start(pollCtx, false)

	logger.GetDefault().LogSessionOpened(ctx, session.ID(), opts.Trip.Route, opts.Trip.TravelDate, session.maxSelectable)
	return session, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	managed, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return managed.session, nil
}

// Close ends a session and waits for its poll loop to exit
func (m *Manager) Close(ctx context.Context, id, reason string) error {
	m.mu.Lock()
	managed, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	m.shutdownSession(managed)
	logger.GetDefault().LogSessionClosed(ctx, id, reason)
	return nil
}

func (m *Manager) shutdownSession(managed *managedSession) {
	managed.session.Close()
	managed.cancel()
	<-managed.syncer.Done()
}

// Refresh is the manual retry: it syncs now and returns the new view
func (m *Manager) Refresh(ctx context.Context, id string) (View, error) {
	session, err := m.Get(id)
	if err != nil {
		return View{}, err
	}
	if err := session.Sync(ctx, SyncManual); errors.Is(err, ErrSessionClosed) {
		return View{}, err
	}
	return session.View(), nil
}

// ChangeTrip moves a session to another trip and syncs against it
func (m *Manager) ChangeTrip(ctx context.Context, id string, trip Trip) (View, error) {
	session, err := m.Get(id)
	if err != nil {
		return View{}, err
	}
	layout := m.layouts.Resolve(ctx, trip.BusPlate, trip.SeatType)
	if err := session.ChangeTrip(trip, layout); err != nil {
		return View{}, err
	}
	if err := session.Sync(ctx, SyncManual); errors.Is(err, ErrSessionClosed) {
		return View{}, err
	}
	return session.View(), nil
}

// CloseIdle closes sessions unused for longer than ttl
func (m *Manager) CloseIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var idle []*managedSession
	for id, managed := range m.sessions {
		if managed.session.idleSince().Before(cutoff) {
			idle = append(idle, managed)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, managed := range idle {
		m.shutdownSession(managed)
		logger.GetDefault().LogSessionClosed(ctx, managed.session.ID(), "idle")
	}
	return len(idle)
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PaymentContext returns the mirrored context for a submitted booking
func (m *Manager) PaymentContext(ctx context.Context, bookingReference string) (*PaymentContext, error) {
	var paymentCtx PaymentContext
	if err := m.cache.Get(ctx, constants.BuildPaymentContextKey(bookingReference), &paymentCtx); err != nil {
		return nil, fmt.Errorf("payment context for %s: %w", bookingReference, err)
	}
	return &paymentCtx, nil
}

// Shutdown closes every session and stops all poll loops
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	m.stop()
	all := make([]*managedSession, 0, len(m.sessions))
	for id, managed := range m.sessions {
		all = append(all, managed)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, managed := range all {
		m.shutdownSession(managed)
		logger.GetDefault().LogSessionClosed(ctx, managed.session.ID(), "shutdown")
	}
}
