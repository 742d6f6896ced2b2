package coaching

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fitcoach/domain"
)

func TestSummaryListsAreBounded(t *testing.T) {
	env := newTestEnv()
	pol := DefaultPolicy()

	// ten movements, one topic per known suggestion plus unknowns
	for i := 0; i < 10; i++ {
		recordFeedback(t, env, "too_hard", env.now.Add(-time.Duration(i+1)*time.Hour))
		env.events.events[len(env.events.events)-1].Payload["movement"] = "movement_" + string(rune('a'+i))
	}

	summary, err := env.svc.GetCoachSummary(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.WeakestMovements) > pol.MaxMovements {
		t.Errorf("WeakestMovements = %d entries, cap is %d", len(summary.WeakestMovements), pol.MaxMovements)
	}
	if len(summary.TopDeclineFlags) > pol.MaxDeclineTopics {
		t.Errorf("TopDeclineFlags = %d entries, cap is %d", len(summary.TopDeclineFlags), pol.MaxDeclineTopics)
	}
}

func TestWeakestMovementsLowestFirst(t *testing.T) {
	conf := map[string]float64{
		"squat":    0.9,
		"deadlift": 0.2,
		"bench":    0.5,
		"row":      0.7,
	}

	got := weakestMovements(conf, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Movement != "deadlift" || got[1].Movement != "bench" || got[2].Movement != "row" {
		t.Errorf("order = %v, want lowest confidence first", got)
	}
}

func TestDecayedDeclineIsNotAFlag(t *testing.T) {
	declines := []domain.DeclineStat{
		{Topic: domain.TopicWeightIncrease, Count: 2.5},
		{Topic: domain.TopicExtraSet, Count: 0.5},
	}

	got := topDeclineFlags(declines, 3)
	if len(got) != 1 || got[0].Topic != domain.TopicWeightIncrease {
		t.Errorf("flags = %v, want only counts >= 1", got)
	}
}

func TestCapSummarySizeShedsLists(t *testing.T) {
	summary := domain.UserCoachSummary{
		UserID:            1,
		CoachPersonality:  domain.PersonalityFriendly,
		ProgressionPace:   domain.PaceModerate,
		MostMissedWeekday: "Wednesday",
	}
	for i := 0; i < 40; i++ {
		summary.WeakestMovements = append(summary.WeakestMovements, domain.MovementScore{
			Movement:   "some_fairly_long_movement_name_variant",
			Confidence: 0.5,
		})
		summary.TopDeclineFlags = append(summary.TopDeclineFlags, domain.DeclineStat{
			Topic: domain.TopicWeightIncrease,
			Count: float64(i),
		})
	}

	capped := capSummarySize(summary, 512)

	raw, err := json.Marshal(capped)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) > 512 {
		t.Errorf("capped summary is %d bytes, budget 512", len(raw))
	}
	// scalar core survives shedding
	if capped.UserID != 1 || capped.ProgressionPace != domain.PaceModerate {
		t.Errorf("scalar fields lost during shedding: %+v", capped)
	}
}

func TestSummaryDegradesWhenFactsUnavailable(t *testing.T) {
	env := newTestEnv()
	env.facts.err = context.DeadlineExceeded

	summary, err := env.svc.GetCoachSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("facts failure should degrade, not error: %v", err)
	}
	if summary.StreakDays != 0 || summary.TotalWorkouts != 0 {
		t.Errorf("expected zero facts, got %+v", summary)
	}
	if summary.CoachPersonality != domain.PersonalityFriendly {
		t.Errorf("personality = %q, want default", summary.CoachPersonality)
	}
}
