package coaching

import (
	"context"
	"time"

	"fitcoach/pkg/logger"
)

const janitorInterval = 6 * time.Hour

// StartJanitor prunes rows outside their lookback windows on a fixed
// interval until ctx is cancelled. Events past the aggregation window and
// history past the cooldown window can never influence output again, so
// dropping them is safe at any moment.
func (s *CoachingService) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneExpired(ctx)
		}
	}
}

func (s *CoachingService) pruneExpired(ctx context.Context) {
	pol := s.loadPolicy(ctx)
	now := s.now()

	if err := s.eventRepo.PruneBefore(ctx, now.AddDate(0, 0, -pol.WindowDays)); err != nil {
		logger.Error("coaching: failed to prune behavior events", err)
	}
	if err := s.historyRepo.PruneBefore(ctx, now.Add(-pol.WellnessCooldown)); err != nil {
		logger.Error("coaching: failed to prune insight history", err)
	}

	logger.Debug("coaching_janitor_pass", "window_days", pol.WindowDays)
}
