package coaching

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"fitcoach/domain"
	"fitcoach/pkg/logger"
	"fitcoach/pkg/metrics"
)

// GetCoachSummary builds the single bounded object downstream prompt
// construction is allowed to read. Raw events never leave the aggregator;
// everything here is tendencies plus cheap workout facts, capped so the
// serialized size stays inside the prompt budget no matter how long the
// user's history is.
func (s *CoachingService) GetCoachSummary(ctx context.Context, userID uint) (domain.UserCoachSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserCoachSummary{}, err
	}

	start := time.Now()
	defer func() {
		metrics.SummaryBuildLatency.Observe(time.Since(start).Seconds())
	}()

	pol := s.loadPolicy(ctx)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return *cached, nil
		}
	}

	tendencies, err := s.refreshTendencies(ctx, userID)
	if err != nil {
		// neutral profile came back; summary building continues degraded
		logger.Debug("coaching_summary_degraded", "user_id", userID, "reason", err.Error())
	}

	facts := WorkoutFacts{}
	if s.factsRepo != nil {
		if f, ferr := s.factsRepo.GetFacts(ctx, userID); ferr == nil {
			facts = f
		} else {
			logger.Error("coaching: failed to load workout facts", "user_id", userID, ferr)
		}
	}

	personality := domain.PersonalityFriendly
	if s.profileRepo != nil {
		if profile, ok, perr := s.profileRepo.GetProfile(ctx, userID); perr == nil && ok && profile.CoachPersonality.Valid() {
			personality = profile.CoachPersonality
		}
	}

	summary := domain.UserCoachSummary{
		UserID:              userID,
		CoachPersonality:    personality,
		StreakDays:          facts.StreakDays,
		WeeklyProgress:      clamp01(facts.WeeklyProgress),
		TotalWorkouts:       facts.TotalWorkouts,
		MostMissedWeekday:   facts.MostMissedWeekday,
		ProgressionPace:     tendencies.ProgressionPace,
		PrefersConfirmation: tendencies.PrefersConfirmation,
		ConfidenceWithLoad:  tendencies.ConfidenceWithLoad,
		RecoveryNeed:        tendencies.RecoveryNeed,
		WeakestMovements:    weakestMovements(tendencies.MovementConfidence, pol.MaxMovements),
		TopDeclineFlags:     topDeclineFlags(tendencies.RecentDeclines, pol.MaxDeclineTopics),
		GeneratedAt:         s.now(),
	}

	summary = capSummarySize(summary, pol.MaxSummaryBytes)

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, summary, pol.SummaryCacheTTL); cerr != nil {
			logger.Debug("coaching_summary_cache_miss", "user_id", userID, "error", cerr.Error())
		}
	}

	return summary, nil
}

// weakestMovements keeps the n lowest-confidence movements, lowest first.
func weakestMovements(conf map[string]float64, n int) []domain.MovementScore {
	if len(conf) == 0 || n <= 0 {
		return nil
	}

	scores := make([]domain.MovementScore, 0, len(conf))
	for movement, c := range conf {
		scores = append(scores, domain.MovementScore{Movement: movement, Confidence: c})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Confidence != scores[j].Confidence {
			return scores[i].Confidence < scores[j].Confidence
		}
		return scores[i].Movement < scores[j].Movement
	})

	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// topDeclineFlags keeps the n most active decline topics. Entries with a
// count decayed under one are no longer flags, just history.
func topDeclineFlags(declines []domain.DeclineStat, n int) []domain.DeclineStat {
	if len(declines) == 0 || n <= 0 {
		return nil
	}

	active := make([]domain.DeclineStat, 0, len(declines))
	for _, d := range declines {
		if d.Count >= 1 {
			active = append(active, d)
		}
	}
	// RecentDeclines is already sorted count-descending by the aggregator
	if len(active) > n {
		active = active[:n]
	}
	return active
}

// capSummarySize enforces the serialized byte budget by shedding list
// entries, never by failing. The scalar core always fits.
func capSummarySize(summary domain.UserCoachSummary, maxBytes int) domain.UserCoachSummary {
	if maxBytes <= 0 {
		return summary
	}

	for {
		raw, err := json.Marshal(summary)
		if err == nil && len(raw) <= maxBytes {
			return summary
		}

		switch {
		case len(summary.WeakestMovements) > 0:
			summary.WeakestMovements = summary.WeakestMovements[:len(summary.WeakestMovements)-1]
		case len(summary.TopDeclineFlags) > 0:
			summary.TopDeclineFlags = summary.TopDeclineFlags[:len(summary.TopDeclineFlags)-1]
		case summary.MostMissedWeekday != "":
			summary.MostMissedWeekday = ""
		default:
			return summary
		}
	}
}
