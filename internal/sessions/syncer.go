package sessions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"busdesk/pkg/logger"
)

// syncTarget is what a Syncer keeps fresh
type syncTarget interface {
	ID() string
	Sync(ctx context.Context, mode SyncMode) error
}

// Syncer polls availability for one session until its context ends
type Syncer struct {
	target   syncTarget
	interval time.Duration
	done     chan struct{}
}

func NewSyncer(target syncTarget, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Syncer{
		target:   target,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the poll loop in the background. When initial is set the first
// sync happens right away and shows as loading.
func (sy *Syncer) Start(ctx context.Context, initial bool) {
	go sy.run(ctx, initial)
}

// Done is closed once the poll loop has exited
func (sy *Syncer) Done() <-chan struct{} {
	return sy.done
}

func (sy *Syncer) run(ctx context.Context, initial bool) {
	defer close(sy.done)

	ticker := time.NewTicker(sy.interval)
	defer ticker.Stop()

	if initial {
		if !sy.sync(ctx, SyncInitial) {
			return
		}
	}

	for {
		select {
		case <-ticker.C:
			if !sy.sync(ctx, SyncSilent) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// sync reports whether polling should continue
func (sy *Syncer) sync(ctx context.Context, mode SyncMode) bool {
	err := sy.target.Sync(ctx, mode)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrSessionClosed):
		return false
	case ctx.Err() != nil:
		return false
	default:
		logger.GetDefault().WithSessionID(sy.target.ID()).Debug("background seat sync failed",
			slog.Any("error", err),
		)
		return true
	}
}
