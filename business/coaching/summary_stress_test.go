//go:build !integration

package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"fitcoach/domain"
)

// scenario params
const (
	stressNumEvents    = 10000
	stressNumMovements = 200
	stressNumDays      = 69
)

var stressTopics = []string{
	domain.TopicWeightIncrease,
	domain.TopicRepIncrease,
	domain.TopicExtraSet,
	domain.TopicRestDay,
}

func TestSummaryStaysBoundedUnderHeavyHistory(t *testing.T) {
	env := newTestEnv()
	pol := DefaultPolicy()
	rng := rand.New(rand.NewSource(42))

	difficulties := []string{"easy", "perfect", "too_hard"}

	for i := 0; i < stressNumEvents; i++ {
		at := env.now.
			AddDate(0, 0, -rng.Intn(stressNumDays)).
			Add(-time.Duration(rng.Intn(12)) * time.Hour)

		var ev domain.BehaviorEvent
		switch i % 3 {
		case 0:
			ev = domain.BehaviorEvent{
				UserID:    1,
				EventType: domain.EventFeedbackSubmitted,
				Payload: map[string]any{
					"difficulty": difficulties[rng.Intn(len(difficulties))],
					"movement":   fmt.Sprintf("movement_%d", rng.Intn(stressNumMovements)),
				},
				CreatedAt: at,
			}
		case 1:
			ev = domain.BehaviorEvent{
				UserID:    1,
				EventType: domain.EventSuggestionDeclined,
				Topic:     stressTopics[rng.Intn(len(stressTopics))],
				CreatedAt: at,
			}
		default:
			ev = domain.BehaviorEvent{
				UserID:    1,
				EventType: domain.EventSuggestionAccepted,
				Topic:     stressTopics[rng.Intn(len(stressTopics))],
				CreatedAt: at,
			}
		}

		if err := env.svc.RecordEvent(context.Background(), ev); err != nil {
			t.Fatal(err)
		}
	}

	env.facts.facts = WorkoutFacts{
		StreakDays:        12,
		WeeklyProgress:    0.9,
		TotalWorkouts:     900,
		MostMissedWeekday: "Wednesday",
	}

	summary, err := env.svc.GetCoachSummary(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatal(err)
	}

	t.Logf("events=%d summary_bytes=%d movements=%d flags=%d",
		stressNumEvents, len(raw), len(summary.WeakestMovements), len(summary.TopDeclineFlags))

	if len(raw) > pol.MaxSummaryBytes {
		t.Errorf("summary is %d bytes, budget %d", len(raw), pol.MaxSummaryBytes)
	}
	if len(summary.WeakestMovements) > pol.MaxMovements {
		t.Errorf("WeakestMovements = %d, cap %d", len(summary.WeakestMovements), pol.MaxMovements)
	}

	for _, score := range summary.WeakestMovements {
		if score.Confidence < 0 || score.Confidence > 1 {
			t.Errorf("confidence %v outside [0,1]", score.Confidence)
		}
	}
}
