package auth

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionSweeper periodically deletes expired sessions. It runs once
// immediately, then every interval, and returns when ctx is cancelled.
// Failed sweeps are logged and retried on the next tick.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("session sweeper started", "interval", interval)

	s.runSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *Service) runSweep(ctx context.Context) {
	start := time.Now()
	n, err := s.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("session sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		slog.Info("expired sessions removed",
			"sessions_removed", n,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
