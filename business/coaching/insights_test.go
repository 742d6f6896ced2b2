package coaching

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcoach/domain"
)

func insightKeys(insights []domain.CoachInsight) []string {
	keys := make([]string, 0, len(insights))
	for _, ins := range insights {
		keys = append(keys, ins.Key)
	}
	return keys
}

func findInsight(insights []domain.CoachInsight, key string) (domain.CoachInsight, bool) {
	for _, ins := range insights {
		if ins.Key == key {
			return ins, true
		}
	}
	return domain.CoachInsight{}, false
}

func recordFeedback(t *testing.T, env *testEnv, difficulty string, at time.Time) {
	t.Helper()
	err := env.svc.RecordEvent(context.Background(), domain.BehaviorEvent{
		UserID:    1,
		EventType: domain.EventFeedbackSubmitted,
		Payload:   map[string]any{"difficulty": difficulty},
		CreatedAt: at,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWellnessCategoryCooldown(t *testing.T) {
	env := newTestEnv()

	// repeated too_hard feedback keeps the recovery rule triggered
	recordFeedback(t, env, "too_hard", env.now.Add(-48*time.Hour))
	recordFeedback(t, env, "too_hard", env.now.Add(-24*time.Hour))

	first := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(first, "recovery_need"); !ok {
		t.Fatalf("expected recovery_need in first batch, got %v", insightKeys(first))
	}

	// two days later the trigger still holds but the category is cooling
	env.now = env.now.Add(48 * time.Hour)
	second := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(second, "recovery_need"); ok {
		t.Errorf("recovery_need served again inside the category cooldown")
	}

	// past the seven-day window it becomes eligible again
	env.now = env.now.Add(7 * 24 * time.Hour)
	recordFeedback(t, env, "too_hard", env.now.Add(-2*time.Hour))
	recordFeedback(t, env, "too_hard", env.now.Add(-time.Hour))
	third := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(third, "recovery_need"); !ok {
		t.Errorf("recovery_need still suppressed after cooldown, got %v", insightKeys(third))
	}
}

func TestStreakWithDeclinesStaysEncouraging(t *testing.T) {
	env := newTestEnv()
	env.facts.facts = WorkoutFacts{StreakDays: 7, TotalWorkouts: 40, WeeklyProgress: 0.5}

	for i := 3; i >= 1; i-- {
		err := env.svc.RecordEvent(context.Background(), domain.BehaviorEvent{
			UserID:    1,
			EventType: domain.EventSuggestionDeclined,
			Topic:     domain.TopicWeightIncrease,
			CreatedAt: env.now.Add(-time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	insights := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})

	streak, ok := findInsight(insights, "streak_major")
	if !ok {
		t.Fatalf("expected streak_major, got %v", insightKeys(insights))
	}
	if streak.Priority < 8 {
		t.Errorf("streak priority = %d, want >= 8", streak.Priority)
	}

	decline, ok := findInsight(insights, "decline_"+domain.TopicWeightIncrease)
	if !ok {
		t.Fatalf("expected decline insight, got %v", insightKeys(insights))
	}
	if !strings.Contains(decline.Message, gentleLeadIn) {
		t.Errorf("decline message not gentle: %q", decline.Message)
	}
	if strings.Contains(decline.Message, "must") || strings.Contains(decline.Message, "have to") {
		t.Errorf("decline message reads as a demand: %q", decline.Message)
	}
}

func TestInsightsFallBackToDefault(t *testing.T) {
	env := newTestEnv()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	insights := env.svc.GetCoachInsights(ctx, 1, InsightOptions{})
	if len(insights) != 1 || insights[0].Key != "default_motivation" {
		t.Errorf("expected single default insight, got %v", insightKeys(insights))
	}
}

func TestInsightKeyNotRepeatedInsideExpiry(t *testing.T) {
	env := newTestEnv()
	env.facts.facts = WorkoutFacts{StreakDays: 4, TotalWorkouts: 10}

	first := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(first, "streak_minor"); !ok {
		t.Fatalf("expected streak_minor, got %v", insightKeys(first))
	}

	// one hour later the same key is still inside its expiry window
	env.now = env.now.Add(time.Hour)
	second := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(second, "streak_minor"); ok {
		t.Errorf("streak_minor repeated inside expiry window")
	}

	// past expiry it can fire again
	env.now = env.now.Add(5 * time.Hour)
	third := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{})
	if _, ok := findInsight(third, "streak_minor"); !ok {
		t.Errorf("streak_minor not re-eligible after expiry, got %v", insightKeys(third))
	}
}

func TestAIVariantSkippedWhenHighPriorityPending(t *testing.T) {
	env := newTestEnv()
	env.facts.facts = WorkoutFacts{StreakDays: 10, TotalWorkouts: 30}

	env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{IncludeAI: true})
	if env.llm.calls != 0 {
		t.Errorf("completion called %d times with a priority-9 candidate pending", env.llm.calls)
	}
}

func TestAIVariantFailureFallsBackToRules(t *testing.T) {
	env := newTestEnv()
	env.llm.err = context.DeadlineExceeded
	env.facts.facts = WorkoutFacts{StreakDays: 4, TotalWorkouts: 10}

	insights := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{IncludeAI: true})

	if env.llm.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", env.llm.calls)
	}
	if _, ok := findInsight(insights, "ai_variant"); ok {
		t.Errorf("ai_variant served despite completion failure")
	}
	if _, ok := findInsight(insights, "streak_minor"); !ok {
		t.Errorf("rule-based insights missing after completion failure, got %v", insightKeys(insights))
	}
}

func TestAIVariantServedWhenQuiet(t *testing.T) {
	env := newTestEnv()
	env.facts.facts = WorkoutFacts{StreakDays: 4, TotalWorkouts: 10}

	insights := env.svc.GetCoachInsights(context.Background(), 1, InsightOptions{IncludeAI: true})
	if env.llm.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", env.llm.calls)
	}
	if _, ok := findInsight(insights, "ai_variant"); !ok {
		t.Errorf("expected ai_variant alongside low-priority rules, got %v", insightKeys(insights))
	}
}
