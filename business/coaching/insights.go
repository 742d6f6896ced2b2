package coaching

import (
	"context"
	"sort"
	"time"

	"fitcoach/domain"
	"fitcoach/pkg/logger"
	"fitcoach/pkg/metrics"
)

type InsightOptions struct {
	Count     int
	IncludeAI bool
}

// GetCoachInsights returns the ranked, deduplicated, time-boxed set of
// coaching messages that is safe to surface right now. This path never
// fails: any internal error collapses to a single safe default insight.
func (s *CoachingService) GetCoachInsights(ctx context.Context, userID uint, opts InsightOptions) []domain.CoachInsight {
	pol := s.loadPolicy(ctx)
	now := s.now()

	if opts.Count <= 0 || opts.Count > pol.MaxInsights {
		opts.Count = pol.MaxInsights
	}

	metrics.InsightRequestsTotal.Inc()

	tid := TraceIDFromContext(ctx)

	summary, err := s.GetCoachSummary(ctx, userID)
	if err != nil {
		logger.Error("coaching: insight context build failed", "trace_id", tid, "user_id", userID, err)
		metrics.InsightFallbackTotal.Inc()
		return []domain.CoachInsight{defaultInsight(now, pol.InsightExpiry)}
	}

	candidates := s.generateCandidates(summary, now, pol)
	candidates = s.filterShown(ctx, userID, candidates, now, pol)

	// the AI variant only runs when nothing high-priority is pending,
	// keeping completion calls rare and bounded
	if opts.IncludeAI && s.llm != nil && maxPriority(candidates) < pol.LLMPriorityBar {
		if ai, ok := s.aiVariant(ctx, summary, now, pol); ok {
			candidates = append(candidates, candidate{insight: ai, triggeredAt: now})
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, candidate{insight: defaultInsight(now, pol.InsightExpiry), triggeredAt: now})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].insight.Priority != candidates[j].insight.Priority {
			return candidates[i].insight.Priority > candidates[j].insight.Priority
		}
		return candidates[i].triggeredAt.After(candidates[j].triggeredAt)
	})

	if len(candidates) > opts.Count {
		candidates = candidates[:opts.Count]
	}

	out := make([]domain.CoachInsight, 0, len(candidates))
	for _, c := range candidates {
		ins := c.insight
		ins.Message = AdaptMessage(ins.Message, summary.CoachPersonality, domain.ModeHome, s.personalities)
		out = append(out, ins)
		InsightsServedTotal.WithLabelValues(ins.Category).Inc()
	}

	s.markShown(ctx, userID, out, now, pol)

	logger.Debug("coaching_insights",
		"trace_id", tid,
		"user_id", userID,
		"served", len(out),
	)

	return out
}

// filterShown applies the anti-spam rules. Wellness-class categories move
// Eligible -> Shown -> Cooling: once shown, the whole category stays
// ineligible for the cooldown window regardless of triggers. Other
// categories only suppress the exact insight key within its expiry window.
// A history read failure degrades to showing (insights must never error),
// which at worst repeats a message one extra time.
func (s *CoachingService) filterShown(ctx context.Context, userID uint, candidates []candidate, now time.Time, pol Policy) []candidate {
	if s.historyRepo == nil || len(candidates) == 0 {
		return candidates
	}

	history, err := s.historyRepo.ListSince(ctx, userID, now.Add(-pol.WellnessCooldown))
	if err != nil {
		logger.Error("coaching: failed to load insight history", "user_id", userID, err)
		return candidates
	}

	coolingCategories := map[string]bool{}
	shownKeys := map[string]time.Time{}
	for _, h := range history {
		if wellnessClass[h.Category] && now.Sub(h.ShownAt) < pol.WellnessCooldown {
			coolingCategories[h.Category] = true
		}
		if last, ok := shownKeys[h.InsightKey]; !ok || h.ShownAt.After(last) {
			shownKeys[h.InsightKey] = h.ShownAt
		}
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if coolingCategories[c.insight.Category] {
			continue
		}
		if shownAt, ok := shownKeys[c.insight.Key]; ok && now.Sub(shownAt) < pol.InsightExpiry {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// markShown is the Shown transition: append to the lookback log and prune
// entries past the longest window. Failures are logged only.
func (s *CoachingService) markShown(ctx context.Context, userID uint, shown []domain.CoachInsight, now time.Time, pol Policy) {
	if s.historyRepo == nil || len(shown) == 0 {
		return
	}

	entries := make([]domain.InsightHistoryEntry, 0, len(shown))
	for _, ins := range shown {
		entries = append(entries, domain.InsightHistoryEntry{
			UserID:     userID,
			Category:   ins.Category,
			InsightKey: ins.Key,
			ShownAt:    now,
		})
	}

	if err := s.historyRepo.Append(ctx, entries); err != nil {
		logger.Error("coaching: failed to append insight history", "user_id", userID, err)
		return
	}

	if err := s.historyRepo.PruneBefore(ctx, now.Add(-pol.WellnessCooldown)); err != nil {
		logger.Debug("coaching_history_prune_failed", "error", err.Error())
	}
}

func maxPriority(candidates []candidate) int {
	best := 0
	for _, c := range candidates {
		if c.insight.Priority > best {
			best = c.insight.Priority
		}
	}
	return best
}

// aiVariant asks the completion service for one extra nudge, under a hard
// timeout. Any failure means rule-based only; the caller never notices.
func (s *CoachingService) aiVariant(ctx context.Context, summary domain.UserCoachSummary, now time.Time, pol Policy) (domain.CoachInsight, bool) {
	llmCtx, cancel := context.WithTimeout(ctx, pol.LLMTimeout)
	defer cancel()

	text, err := s.llm.Complete(llmCtx, CompletionRequest{
		SystemPrompt: BuildSystemPrompt(summary, domain.ModeHome, s.personalities),
		UserMessage:  "Write one short, encouraging coaching nudge for this user right now. One or two sentences, no greeting.",
		MaxTokens:    96,
		Temperature:  0.7,
	})
	if err != nil || text == "" {
		LLMFallbackTotal.Inc()
		logger.Debug("coaching_ai_variant_skipped", "user_id", summary.UserID)
		return domain.CoachInsight{}, false
	}

	return newInsight(
		"ai_variant",
		domain.CategoryMotivation,
		text,
		"",
		5, now, pol.InsightExpiry,
	), true
}
