package coaching

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"fitcoach/domain"
)

// newestFirst reverses a chronologically built slice into the repository's
// return order.
func newestFirst(events []domain.BehaviorEvent) []domain.BehaviorEvent {
	out := make([]domain.BehaviorEvent, len(events))
	for i, ev := range events {
		out[len(events)-1-i] = ev
	}
	return out
}

func suggestion(userID uint, eventType, topic string, at time.Time) domain.BehaviorEvent {
	return domain.BehaviorEvent{
		UserID:    userID,
		EventType: eventType,
		Topic:     topic,
		CreatedAt: at,
	}
}

func TestAggregateZeroEventsIsNeutral(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	got := aggregateTendencies(1, nil, now, DefaultPolicy())

	if got.PrefersConfirmation != neutralSignal {
		t.Errorf("PrefersConfirmation = %v, want %v", got.PrefersConfirmation, neutralSignal)
	}
	if got.ConfidenceWithLoad != neutralSignal {
		t.Errorf("ConfidenceWithLoad = %v, want %v", got.ConfidenceWithLoad, neutralSignal)
	}
	if got.RecoveryNeed != neutralSignal {
		t.Errorf("RecoveryNeed = %v, want %v", got.RecoveryNeed, neutralSignal)
	}
	if got.ProgressionPace != domain.PaceModerate {
		t.Errorf("ProgressionPace = %q, want %q", got.ProgressionPace, domain.PaceModerate)
	}
	if got.MovementConfidence == nil || len(got.MovementConfidence) != 0 {
		t.Errorf("MovementConfidence = %v, want empty non-nil map", got.MovementConfidence)
	}
	if got.RecentDeclines == nil || len(got.RecentDeclines) != 0 {
		t.Errorf("RecentDeclines = %v, want empty non-nil slice", got.RecentDeclines)
	}
}

func TestDeclineCountIsReversible(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	declines := []domain.BehaviorEvent{
		suggestion(1, domain.EventSuggestionDeclined, domain.TopicWeightIncrease, now.Add(-72*time.Hour)),
		suggestion(1, domain.EventSuggestionDeclined, domain.TopicWeightIncrease, now.Add(-48*time.Hour)),
	}

	before := aggregateTendencies(1, newestFirst(declines), now, pol)
	if len(before.RecentDeclines) != 1 {
		t.Fatalf("RecentDeclines = %v, want one topic", before.RecentDeclines)
	}
	countBefore := before.RecentDeclines[0].Count
	if countBefore != 2 {
		t.Fatalf("decline count = %v, want 2", countBefore)
	}

	withAccept := append(declines,
		suggestion(1, domain.EventSuggestionAccepted, domain.TopicWeightIncrease, now.Add(-24*time.Hour)))
	after := aggregateTendencies(1, newestFirst(withAccept), now, pol)

	if len(after.RecentDeclines) != 1 {
		t.Fatalf("RecentDeclines after accept = %v, want topic retained", after.RecentDeclines)
	}
	countAfter := after.RecentDeclines[0].Count
	if countAfter >= countBefore {
		t.Errorf("decline count = %v after accept, want strictly below %v", countAfter, countBefore)
	}
	if after.RecentDeclines[0].Topic != domain.TopicWeightIncrease {
		t.Errorf("topic = %q, want %q", after.RecentDeclines[0].Topic, domain.TopicWeightIncrease)
	}
}

func TestDecayWeightMonotonic(t *testing.T) {
	pol := DefaultPolicy()

	prev := decayWeight(pol.DecayLambda, 0)
	if prev != 1 {
		t.Fatalf("zero-age weight = %v, want 1", prev)
	}
	for days := 1; days <= 70; days++ {
		w := decayWeight(pol.DecayLambda, time.Duration(days)*24*time.Hour)
		if w >= prev {
			t.Fatalf("weight at %d days = %v, not below %v", days, w, prev)
		}
		if w <= 0 {
			t.Fatalf("weight at %d days = %v, want positive", days, w)
		}
		prev = w
	}
}

func TestRecentEventsOutweighOld(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	// one old accept against one fresh decline: the decline should pull
	// the confirmation preference above the midpoint
	events := []domain.BehaviorEvent{
		suggestion(1, domain.EventSuggestionAccepted, domain.TopicWeightIncrease, now.AddDate(0, 0, -60)),
		suggestion(1, domain.EventSuggestionDeclined, domain.TopicWeightIncrease, now.Add(-2*time.Hour)),
	}

	got := aggregateTendencies(1, newestFirst(events), now, pol)
	if got.PrefersConfirmation <= 0.5 {
		t.Errorf("PrefersConfirmation = %v, want fresh decline to dominate", got.PrefersConfirmation)
	}
}

func TestPaceSingleOutlierWeekIsIgnored(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	var events []domain.BehaviorEvent
	for week := 6; week >= 0; week-- {
		at := now.AddDate(0, 0, -7*week).Add(-time.Hour)
		if week == 3 {
			// outlier: two accepts in one week
			events = append(events,
				suggestion(1, domain.EventSuggestionAccepted, domain.TopicWeightIncrease, at),
				suggestion(1, domain.EventSuggestionAccepted, domain.TopicRepIncrease, at.Add(time.Minute)),
			)
			continue
		}
		// single accept per week reads as moderate
		events = append(events, suggestion(1, domain.EventSuggestionAccepted, domain.TopicWeightIncrease, at))
	}

	got := aggregateTendencies(1, newestFirst(events), now, pol)
	if got.ProgressionPace != domain.PaceModerate {
		t.Errorf("ProgressionPace = %q, want single outlier week ignored", got.ProgressionPace)
	}
}

func TestPaceSustainedWeeksSwitch(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	var events []domain.BehaviorEvent
	for week := 2; week >= 0; week-- {
		at := now.AddDate(0, 0, -7*week).Add(-time.Hour)
		events = append(events,
			suggestion(1, domain.EventSuggestionAccepted, domain.TopicWeightIncrease, at),
			suggestion(1, domain.EventSuggestionAccepted, domain.TopicRepIncrease, at.Add(time.Minute)),
		)
	}

	got := aggregateTendencies(1, newestFirst(events), now, pol)
	if got.ProgressionPace != domain.PaceFast {
		t.Errorf("ProgressionPace = %q, want %q after %d fast weeks",
			got.ProgressionPace, domain.PaceFast, pol.PaceHysteresisRuns)
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	events := newestFirst([]domain.BehaviorEvent{
		suggestion(1, domain.EventSuggestionDeclined, domain.TopicWeightIncrease, now.AddDate(0, 0, -10)),
		suggestion(1, domain.EventSuggestionAccepted, domain.TopicRepIncrease, now.AddDate(0, 0, -5)),
		{
			UserID:    1,
			EventType: domain.EventFeedbackSubmitted,
			Payload:   map[string]any{"difficulty": "too_hard", "movement": "deadlift"},
			CreatedAt: now.AddDate(0, 0, -3),
		},
		{
			UserID:    1,
			EventType: domain.EventFeedbackSubmitted,
			Payload:   map[string]any{"difficulty": "perfect", "movement": "squat"},
			CreatedAt: now.AddDate(0, 0, -1),
		},
	})

	first, err := json.Marshal(aggregateTendencies(1, events, now, pol))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(aggregateTendencies(1, events, now, pol))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("re-aggregation changed output:\n%s\nvs\n%s", first, second)
	}
}

func TestFeedbackDifficultyMovesRecoveryNeed(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	pol := DefaultPolicy()

	hard := []domain.BehaviorEvent{
		{UserID: 1, EventType: domain.EventFeedbackSubmitted, Payload: map[string]any{"difficulty": "too_hard"}, CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: 1, EventType: domain.EventFeedbackSubmitted, Payload: map[string]any{"difficulty": "too_hard"}, CreatedAt: now.Add(-24 * time.Hour)},
	}
	got := aggregateTendencies(1, newestFirst(hard), now, pol)
	if got.RecoveryNeed < 0.7 {
		t.Errorf("RecoveryNeed = %v after repeated too_hard, want >= 0.7", got.RecoveryNeed)
	}

	easy := []domain.BehaviorEvent{
		{UserID: 1, EventType: domain.EventFeedbackSubmitted, Payload: map[string]any{"difficulty": "easy"}, CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: 1, EventType: domain.EventFeedbackSubmitted, Payload: map[string]any{"difficulty": "easy"}, CreatedAt: now.Add(-24 * time.Hour)},
	}
	got = aggregateTendencies(1, newestFirst(easy), now, pol)
	if got.RecoveryNeed > 0.3 {
		t.Errorf("RecoveryNeed = %v after repeated easy, want <= 0.3", got.RecoveryNeed)
	}
}
