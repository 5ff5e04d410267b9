package cascade

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweepBatch is the number of pending jobs picked up per sweep
const SweepBatch = 50

// Sweeper periodically resumes unfinished team deletions
type Sweeper struct {
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *zap.Logger
}

// NewSweeper creates a new sweeper
func NewSweeper(o *Orchestrator, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{orchestrator: o, interval: interval, logger: logger}
}

// SweepOnce resumes one batch of pending jobs
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	completed, err := s.orchestrator.ResumePending(ctx, SweepBatch)
	if err != nil {
		s.logger.Error("deletion sweep failed", zap.Error(err))
	}
	if completed > 0 {
		s.logger.Info("resumed team deletions", zap.Int("completed", completed))
	}
	return completed
}

// Run sweeps until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
