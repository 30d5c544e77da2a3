package sessions

import (
	"context"
	"errors"
	"sync"

	"busdesk/internal/availability"
	"busdesk/internal/notifications"
	"busdesk/internal/upstream"
)

var errUpstreamDown = errors.New("dial tcp: connection refused")

type fetchFunc func(ctx context.Context, creds upstream.Credentials, q availability.Query) (*availability.Snapshot, error)

func (f fetchFunc) GetSeatAvailability(ctx context.Context, creds upstream.Credentials, q availability.Query) (*availability.Snapshot, error) {
	return f(ctx, creds, q)
}

func reservedFetcher(reserved ...string) fetchFunc {
	return func(ctx context.Context, creds upstream.Credentials, q availability.Query) (*availability.Snapshot, error) {
		return snapshotOf(q, reserved...), nil
	}
}

func snapshotOf(q availability.Query, reserved ...string) *availability.Snapshot {
	snap := &availability.Snapshot{
		Route:           q.Route,
		TravelDate:      q.TravelDate,
		ReservedSeatIDs: append([]string{}, reserved...),
	}
	for _, id := range reserved {
		snap.Seats = append(snap.Seats, availability.SeatLock{
			SeatLabel:        id,
			Status:           availability.LockStatusLocked,
			BookingReference: "OTHER",
		})
	}
	return snap
}

type fetchReply struct {
	snap *availability.Snapshot
	err  error
}

type pendingFetch struct {
	query availability.Query
	reply chan fetchReply
}

// gatedFetcher parks every request until the test answers it
type gatedFetcher struct {
	calls chan pendingFetch
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{calls: make(chan pendingFetch, 8)}
}

func (g *gatedFetcher) GetSeatAvailability(ctx context.Context, creds upstream.Credentials, q availability.Query) (*availability.Snapshot, error) {
	call := pendingFetch{query: q, reply: make(chan fetchReply, 1)}
	g.calls <- call
	r := <-call.reply
	return r.snap, r.err
}

type recordingPublisher struct {
	mu        sync.Mutex
	reclaimed [][]string
	submitted []string
	seatIDs   [][]string
}

func (p *recordingPublisher) PublishSeatsReclaimed(ctx context.Context, sessionID string, trip notifications.TripRef, seatIDs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reclaimed = append(p.reclaimed, seatIDs)
	return nil
}

func (p *recordingPublisher) PublishBookingSubmitted(ctx context.Context, sessionID string, trip notifications.TripRef, bookingReference string, seatIDs []string, guest bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitted = append(p.submitted, bookingReference)
	p.seatIDs = append(p.seatIDs, seatIDs)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) reclaimedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reclaimed)
}
