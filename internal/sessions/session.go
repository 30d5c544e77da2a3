package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"busdesk/internal/availability"
	"busdesk/internal/bookings"
	"busdesk/internal/notifications"
	"busdesk/internal/seats"
	"busdesk/internal/upstream"
	"busdesk/pkg/logger"
)

// Session is one in-progress booking: the seats a user is holding in their
// draft, the passenger forms bound to them, and the last availability
// snapshot they were reconciled against.
//
// Availability responses are applied in request order. A response whose
// sequence is not newer than the last applied one is dropped, and nothing
// is applied after Close.
type Session struct {
	id        string
	fetcher   availability.Client
	publisher notifications.Publisher
	now       func() time.Time

	mu            sync.Mutex
	trip          Trip
	creds         upstream.Credentials
	layout        seats.Layout
	maxSelectable int

	selected   []string
	passengers []seats.PassengerFormState
	contact    seats.ContactInfo

	snapshot          *availability.Snapshot
	state             SyncState
	loading           int
	lastSyncedAt      *time.Time
	availabilityError string
	notices           []string

	requestSeq uint64
	appliedSeq uint64

	bookingReference string
	submitting       bool
	submitted        bool
	closed           bool
	lastActive       time.Time
}

func newSession(id string, layout seats.Layout, opts Options, defaultTickets int, fetcher availability.Client, publisher notifications.Publisher) *Session {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}

	limit := ticketLimit(opts.SeatCount, len(opts.Passengers), defaultTickets)
	selected := initialSelection(layout, opts.Passengers, limit)

	s := &Session{
		id:               id,
		fetcher:          fetcher,
		publisher:        publisher,
		now:              time.Now,
		trip:             opts.Trip,
		creds:            opts.Credentials,
		layout:           layout,
		maxSelectable:    limit,
		selected:         selected,
		passengers:       seats.BuildPassengersFromSeats(selected, opts.Passengers),
		contact:          opts.Contact,
		state:            SyncStateIdle,
		bookingReference: opts.BookingReference,
	}
	s.lastActive = s.now()
	return s
}

// ticketLimit is max(1, requested seats, else prefilled passengers, else the default)
func ticketLimit(seatCount, prefilled, defaultTickets int) int {
	limit := defaultTickets
	if seatCount > 0 {
		limit = seatCount
	} else if prefilled > 0 {
		limit = prefilled
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// initialSelection prefers the seats carried by prefilled passengers, then
// the first free seats of the coach
func initialSelection(layout seats.Layout, prefilled []seats.PassengerFormState, limit int) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, p := range prefilled {
		if p.SeatLabel != "" && !seen[p.SeatLabel] {
			seen[p.SeatLabel] = true
			labels = append(labels, p.SeatLabel)
		}
	}
	if len(labels) == 0 {
		labels = layout.FreeSeats(nil)
	}

	labels = seats.SortSeats(layout, labels)
	if len(labels) > limit {
		labels = labels[:limit]
	}
	return labels
}

func (s *Session) ID() string {
	return s.id
}

// Sync fetches a fresh snapshot and reconciles the selection against it.
// A failed fetch keeps the previous snapshot; callers get the error but the
// session only records the user-facing message.
func (s *Session) Sync(ctx context.Context, mode SyncMode) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.trip.complete() {
		s.mu.Unlock()
		return nil
	}
	s.requestSeq++
	seq := s.requestSeq
	query := s.trip.query()
	creds := s.creds
	s.state = SyncStateSyncing
	if mode.visible() {
		s.loading++
	}
	s.mu.Unlock()

	snapshot, err := s.fetcher.GetSeatAvailability(ctx, creds, query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if mode.visible() {
		s.loading--
	}
	if seq <= s.appliedSeq {
		// a newer response already landed
		s.mu.Unlock()
		return nil
	}
	s.appliedSeq = seq

	if err != nil {
		s.state = SyncStateError
		s.availabilityError = MessageSyncFailed
		s.mu.Unlock()
		logger.GetDefault().WithSessionID(s.id).WarnContext(ctx, "seat availability sync failed",
			slog.String("mode", string(mode)),
			slog.Any("error", err),
		)
		return err
	}

	now := s.now()
	s.snapshot = snapshot
	s.state = SyncStateSynced
	s.lastSyncedAt = &now
	s.availabilityError = ""
	removed := s.reconcileLocked()
	trip := s.trip.ref()
	s.mu.Unlock()

	if len(removed) > 0 {
		logger.GetDefault().LogSeatsReclaimed(ctx, s.id, removed)
		if err := s.publisher.PublishSeatsReclaimed(ctx, s.id, trip, removed); err != nil {
			logger.GetDefault().WithSessionID(s.id).WarnContext(ctx, "failed to publish seats reclaimed event",
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// reconcileLocked drops selected seats that were reserved by someone else.
// Once a submit is in flight the seats may already be locked under the new
// booking reference, so the draft is left alone.
func (s *Session) reconcileLocked() []string {
	if s.submitting || s.submitted {
		return nil
	}
	kept, removed := seats.Reconcile(s.selected, s.reservedLocked())
	if len(removed) == 0 {
		return nil
	}
	s.selected = kept
	s.passengers = seats.BuildPassengersFromSeats(kept, s.passengers)
	s.notices = append(s.notices, MessageSeatsReclaimed)
	return removed
}

// reservedLocked is the live reserved set minus seats held by this session's
// own booking
func (s *Session) reservedLocked() []string {
	return s.snapshot.ReservedExcept(s.bookingReference)
}

func (s *Session) mutableLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.submitted || s.submitting {
		return ErrAlreadySubmitted
	}
	s.lastActive = s.now()
	return nil
}

// ToggleSeat applies a seat click. Rejected clicks are not errors.
func (s *Session) ToggleSeat(seatID string) (seats.ToggleOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return "", err
	}

	next, outcome := seats.ToggleSeat(s.layout, s.selected, s.reservedLocked(), s.maxSelectable, seatID)
	if outcome.Changed() {
		s.selected = next
		s.passengers = seats.BuildPassengersFromSeats(next, s.passengers)
	}
	return outcome, nil
}

// RemovePassenger releases the seat bound to a passenger card. The last
// remaining passenger cannot be removed.
func (s *Session) RemovePassenger(seatLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	if len(s.passengers) <= 1 {
		return nil
	}

	next := make([]string, 0, len(s.selected))
	for _, id := range s.selected {
		if id != seatLabel {
			next = append(next, id)
		}
	}
	s.selected = seats.SortSeats(s.layout, next)
	s.passengers = seats.BuildPassengersFromSeats(s.selected, s.passengers)
	return nil
}

// PassengerUpdate carries the fields a client may change; nil means unchanged
type PassengerUpdate struct {
	Name     *string `json:"name"`
	IDNumber *string `json:"idNumber"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

func (s *Session) UpdatePassenger(passengerID string, update PassengerUpdate) (seats.PassengerFormState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return seats.PassengerFormState{}, err
	}

	for i := range s.passengers {
		p := &s.passengers[i]
		if p.ID != passengerID {
			continue
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.IDNumber != nil {
			p.IDNumber = *update.IDNumber
		}
		if update.Phone != nil {
			p.Phone = *update.Phone
		}
		if update.Email != nil {
			p.Email = *update.Email
		}
		return *p, nil
	}
	return seats.PassengerFormState{}, ErrPassengerUnknown
}

func (s *Session) SetContact(contact seats.ContactInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.contact = contact
	return nil
}

// ChangeTrip points the session at another trip. The old snapshot is
// dropped and responses still in flight for the old trip are ignored; the
// caller should sync right after.
func (s *Session) ChangeTrip(trip Trip, layout seats.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}

	s.trip = trip
	s.layout = layout
	s.snapshot = nil
	s.appliedSeq = s.requestSeq
	s.state = SyncStateIdle
	s.lastSyncedAt = nil
	s.availabilityError = ""

	kept := make([]string, 0, len(s.selected))
	for _, id := range s.selected {
		if seat := layout.Seat(id); seat != nil && !seat.IsReserved() {
			kept = append(kept, id)
		}
	}
	s.selected = seats.SortSeats(layout, kept)
	s.passengers = seats.BuildPassengersFromSeats(s.selected, s.passengers)
	return nil
}

// SetCredentials replaces the token forwarded upstream, e.g. after the
// client refreshed it
func (s *Session) SetCredentials(creds upstream.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
}

// Validate reports the first field that blocks moving on to review
func (s *Session) Validate() *seats.ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seats.ValidateForm(s.passengers, s.contact)
}

// View renders the session and hands out pending notices exactly once
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked()
	view.Notices = s.notices
	s.notices = nil
	s.lastActive = s.now()
	return view
}

func (s *Session) viewLocked() View {
	reserved := s.reservedLocked()
	if reserved == nil {
		reserved = []string{}
	}
	return View{
		ID:                s.id,
		Trip:              s.trip,
		SeatMap:           seats.BuildSeatMap(s.layout, s.selected, reserved, s.maxSelectable),
		Passengers:        append([]seats.PassengerFormState{}, s.passengers...),
		Contact:           s.contact,
		ReservedSeatIDs:   reserved,
		SyncState:         s.state,
		Loading:           s.loading > 0,
		LastSyncedAt:      s.lastSyncedAt,
		AvailabilityError: s.availabilityError,
		Guest:             s.creds.IsGuest(),
		Total:             s.trip.PricePerTicket * float64(len(s.passengers)),
		BookingReference:  s.bookingReference,
	}
}

// Close stops the session from accepting further state changes
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// idleSince reports when the session was last used
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// beginSubmit freezes the draft and returns what will be sent
func (s *Session) beginSubmit() (bookings.CreateBookingPayload, upstream.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return bookings.CreateBookingPayload{}, upstream.Credentials{}, err
	}
	if verr := seats.ValidateForm(s.passengers, s.contact); verr != nil {
		return bookings.CreateBookingPayload{}, upstream.Credentials{}, verr
	}
	s.submitting = true

	return bookings.CreateBookingPayload{
		Route:          s.trip.Route,
		TravelDate:     s.trip.TravelDate,
		Arrival:        s.trip.Arrival,
		SeatType:       s.trip.SeatType,
		SeatCount:      len(s.passengers),
		PricePerTicket: s.trip.PricePerTicket,
		Contact:        s.contact,
		Passengers:     append([]seats.PassengerFormState{}, s.passengers...),
		Terminal:       s.trip.Terminal,
		Company:        s.trip.Company,
		BusPlate:       s.trip.BusPlate,
	}, s.creds, nil
}

// endSubmit records the outcome of a submission attempt
func (s *Session) endSubmit(bookingReference string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return
	}
	s.submitted = true
	s.bookingReference = bookingReference
}

func (s *Session) currentTrip() Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trip
}

// IsValidationError unwraps a form validation failure
func IsValidationError(err error) (*seats.ValidationError, bool) {
	var verr *seats.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
