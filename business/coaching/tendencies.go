package coaching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fitcoach/domain"
	"fitcoach/pkg/logger"
)

// neutralTendencies is the documented zero-event profile: every scalar at
// the 0.5 midpoint, moderate pace, empty (non-nil) collections.
func neutralTendencies(userID uint, now time.Time) domain.UserTendencies {
	return domain.UserTendencies{
		UserID:              userID,
		ProgressionPace:     domain.PaceModerate,
		PrefersConfirmation: neutralSignal,
		ConfidenceWithLoad:  neutralSignal,
		RecoveryNeed:        neutralSignal,
		MovementConfidence:  map[string]float64{},
		RecentDeclines:      []domain.DeclineStat{},
		LastUpdated:         now,
	}
}

// aggregateTendencies turns the event window into a complete replacement
// profile. Pure: same events + same now => identical output, so re-running
// a pass is always safe. Events arrive newest-first and are processed in
// chronological order.
func aggregateTendencies(userID uint, events []domain.BehaviorEvent, now time.Time, pol Policy) domain.UserTendencies {
	if len(events) == 0 {
		return neutralTendencies(userID, now)
	}

	chrono := make([]domain.BehaviorEvent, len(events))
	for i, ev := range events {
		chrono[len(events)-1-i] = ev
	}

	var (
		confirmation decayedMean
		loadConf     decayedMean
		recovery     decayedMean
		movements    = map[string]*decayedMean{}
		declines     = map[string]*domain.DeclineStat{}
	)

	for _, ev := range chrono {
		w := decayWeight(pol.DecayLambda, now.Sub(ev.CreatedAt))

		if v, ok := confirmationSignal(ev); ok {
			confirmation.add(w, v)
		}
		if v, ok := loadConfidenceSignal(ev); ok {
			loadConf.add(w, v)
		}
		if v, ok := recoverySignal(ev); ok {
			recovery.add(w, v)
		}
		if v, ok := movementSignal(ev); ok {
			if name, ok := eventMovement(ev); ok {
				m := movements[name]
				if m == nil {
					m = &decayedMean{}
					movements[name] = m
				}
				m.add(w, v)
			}
		}

		// Reversible decline tracking: declines accumulate, a single accept
		// decays the count toward zero. The topic entry itself survives.
		if isSuggestionEvent(ev.EventType) && ev.Topic != "" {
			st := declines[ev.Topic]
			if st == nil {
				st = &domain.DeclineStat{Topic: ev.Topic}
				declines[ev.Topic] = st
			}
			if ev.EventType == domain.EventSuggestionDeclined {
				st.Count++
				st.LastAt = ev.CreatedAt
			} else {
				st.Count *= pol.DeclineDecayFactor
			}
		}
	}

	movementConf := make(map[string]float64, len(movements))
	for name, m := range movements {
		movementConf[name] = m.value(neutralSignal)
	}

	declineList := make([]domain.DeclineStat, 0, len(declines))
	for _, st := range declines {
		declineList = append(declineList, *st)
	}
	sort.Slice(declineList, func(i, j int) bool {
		if declineList[i].Count != declineList[j].Count {
			return declineList[i].Count > declineList[j].Count
		}
		return declineList[i].Topic < declineList[j].Topic
	})

	return domain.UserTendencies{
		UserID:              userID,
		ProgressionPace:     progressionPace(chrono, now, pol),
		PrefersConfirmation: confirmation.value(neutralSignal),
		ConfidenceWithLoad:  loadConf.value(neutralSignal),
		RecoveryNeed:        recovery.value(neutralSignal),
		MovementConfidence:  movementConf,
		RecentDeclines:      declineList,
		LastUpdated:         now,
	}
}

// progressionPace buckets accepted progression suggestions into calendar
// weeks relative to now and applies hysteresis: a pace switch needs
// PaceHysteresisRuns consecutive agreeing weeks, so one outlier week never
// flips the bucket. Derived wholly from the window, never from prior state,
// which keeps aggregation idempotent.
func progressionPace(chrono []domain.BehaviorEvent, now time.Time, pol Policy) string {
	type weekSignal struct {
		accepts  float64
		declines float64
		seen     bool
	}

	weeks := map[int]*weekSignal{}
	maxWeek := 0

	for _, ev := range chrono {
		if !isSuggestionEvent(ev.EventType) || !loadTopics[ev.Topic] {
			continue
		}
		weekAgo := int(now.Sub(ev.CreatedAt).Hours() / (24 * 7))
		if weekAgo < 0 {
			weekAgo = 0
		}
		ws := weeks[weekAgo]
		if ws == nil {
			ws = &weekSignal{}
			weeks[weekAgo] = ws
		}
		ws.seen = true
		if ev.EventType == domain.EventSuggestionAccepted {
			ws.accepts++
		} else {
			ws.declines++
		}
		if weekAgo > maxWeek {
			maxWeek = weekAgo
		}
	}

	pace := domain.PaceModerate
	candidate := ""
	run := 0

	// oldest week first
	for w := maxWeek; w >= 0; w-- {
		ws := weeks[w]
		if ws == nil || !ws.seen {
			continue
		}

		observed := domain.PaceModerate
		switch {
		case ws.accepts >= pol.PaceFastPerWeek:
			observed = domain.PaceFast
		case ws.accepts == 0 && ws.declines > 0:
			observed = domain.PaceSlow
		}

		if observed == pace {
			candidate = ""
			run = 0
			continue
		}
		if observed == candidate {
			run++
		} else {
			candidate = observed
			run = 1
		}
		if run >= pol.PaceHysteresisRuns {
			pace = candidate
			candidate = ""
			run = 0
		}
	}

	return pace
}

// refreshTendencies runs one aggregation pass and replaces the stored row.
// A failed event read returns the previous row untouched; a failed write is
// logged and the freshly computed profile is still used for this request.
func (s *CoachingService) refreshTendencies(ctx context.Context, userID uint) (domain.UserTendencies, error) {
	pol := s.loadPolicy(ctx)
	now := s.now()
	since := now.AddDate(0, 0, -pol.WindowDays)

	events, err := s.eventRepo.ListEventsSince(ctx, userID, since)
	if err != nil {
		logger.Error("coaching: failed to load event window", "user_id", userID, err)
		if prev, gerr := s.tendencyRepo.GetTendencies(ctx, userID); gerr == nil && prev != nil {
			return *prev, nil
		}
		return neutralTendencies(userID, now), fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	tendencies := aggregateTendencies(userID, events, now, pol)

	if err := s.tendencyRepo.ReplaceTendencies(ctx, tendencies); err != nil {
		// last-writer-wins; losing a write never corrupts the row
		logger.Error("coaching: failed to replace tendencies", "user_id", userID, err)
	}

	return tendencies, nil
}
