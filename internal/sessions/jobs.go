package sessions

import (
	"context"
	"log/slog"
	"time"

	"busdesk/pkg/logger"
)

// JobProcessor runs the session housekeeping jobs
type JobProcessor struct {
	manager *Manager
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: 1 * time.Minute,  // Look for abandoned sessions every minute
		IdleTTL:       30 * time.Minute, // Drop sessions nobody touched for half an hour
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(manager *Manager, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		manager: manager,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.startIdleSweeper(ctx)
	logger.GetDefault().Info("Session background jobs started",
		slog.Duration("sweep_interval", jp.config.SweepInterval),
		slog.Duration("idle_ttl", jp.config.IdleTTL),
	)
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	close(jp.done)
	logger.GetDefault().Info("Session background jobs stopped")
}

func (jp *JobProcessor) startIdleSweeper(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.sweepIdleSessions(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweepIdleSessions(ctx context.Context) {
	closed := jp.manager.CloseIdle(ctx, jp.config.IdleTTL)
	if closed > 0 {
		logger.GetDefault().Info("Closed idle booking sessions", slog.Int("count", closed))
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"sweep_interval": jp.config.SweepInterval.String(),
		"idle_ttl":       jp.config.IdleTTL.String(),
		"open_sessions":  jp.manager.Count(),
		"status":         "running",
	}
}
