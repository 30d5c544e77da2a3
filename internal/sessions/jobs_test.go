package sessions

import (
	"context"
	"testing"
	"time"
)

func TestJobProcessorSweepsIdleSessions(t *testing.T) {
	manager, _ := newTestManager(t, &stubBookings{})
	ctx := context.Background()

	clock := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	session, _ := manager.Open(ctx, Options{Trip: testTrip})
	jobs := NewJobProcessor(manager, &JobConfig{SweepInterval: time.Hour, IdleTTL: 10 * time.Minute})

	jobs.sweepIdleSessions(ctx)
	if manager.Count() != 1 {
		t.Fatalf("fresh session swept")
	}

	clock = clock.Add(11 * time.Minute)
	jobs.sweepIdleSessions(ctx)
	if manager.Count() != 0 || !session.IsClosed() {
		t.Fatalf("idle session not swept")
	}
	if status := jobs.GetJobStatus(); status["open_sessions"] != 0 {
		t.Fatalf("unexpected status %v", status)
	}
}

func TestJobProcessorStartStop(t *testing.T) {
	manager, _ := newTestManager(t, &stubBookings{})
	jobs := NewJobProcessor(manager, nil)
	if jobs.config.IdleTTL != 30*time.Minute {
		t.Fatalf("default config not applied")
	}
	jobs.Start(context.Background())
	jobs.Stop()
}
