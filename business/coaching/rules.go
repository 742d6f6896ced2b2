package coaching

import (
	"fmt"
	"time"

	"fitcoach/domain"

	"github.com/google/uuid"
)

// candidate pairs an insight with the moment its trigger became relevant,
// used for tie-breaking between equal priorities.
type candidate struct {
	insight     domain.CoachInsight
	triggeredAt time.Time
}

// wellnessClass categories use the 7-day category cooldown; everything else
// expires per insight key.
var wellnessClass = map[string]bool{
	domain.CategoryMentalHealth: true,
	domain.CategoryWellness:     true,
	domain.CategoryRecovery:     true,
}

const gentleLeadIn = "Whenever it feels right"

func newInsight(key, category, message, action string, priority int, now time.Time, expiry time.Duration) domain.CoachInsight {
	return domain.CoachInsight{
		ID:          uuid.NewString(),
		Key:         key,
		Message:     message,
		Category:    category,
		Action:      action,
		Priority:    priority,
		GeneratedAt: now,
		ExpiresAt:   now.Add(expiry),
	}
}

// defaultInsight is the safe fallback surfaced when context building fails.
// It must always be valid to show, for any user, in any state.
func defaultInsight(now time.Time, expiry time.Duration) domain.CoachInsight {
	return newInsight(
		"default_motivation",
		domain.CategoryMotivation,
		"Every session counts. Ready when you are.",
		"open_workout",
		2, now, expiry,
	)
}

// generateCandidates derives every rule-eligible insight from the bounded
// summary. Rules read the summary only; none of them may reach back into
// the event store.
func (s *CoachingService) generateCandidates(summary domain.UserCoachSummary, now time.Time, pol Policy) []candidate {
	var out []candidate

	add := func(ins domain.CoachInsight, triggeredAt time.Time) {
		out = append(out, candidate{insight: ins, triggeredAt: triggeredAt})
	}

	// streak thresholds
	switch {
	case summary.StreakDays >= pol.StreakMajor:
		add(newInsight(
			"streak_major",
			domain.CategoryStreak,
			fmt.Sprintf("%d days in a row. This is what consistency looks like. Keep the chain going today.", summary.StreakDays),
			"open_workout",
			9, now, pol.InsightExpiry,
		), now)
	case summary.StreakDays >= pol.StreakMinor:
		add(newInsight(
			"streak_minor",
			domain.CategoryStreak,
			fmt.Sprintf("You're on a %d-day streak. One more today makes it stick.", summary.StreakDays),
			"open_workout",
			7, now, pol.InsightExpiry,
		), now)
	}

	// weekly progress thresholds
	if summary.WeeklyProgress >= pol.ProgressHigh {
		add(newInsight(
			"progress_high",
			domain.CategoryProgress,
			"You've nearly closed out your week already. Strong work.",
			"",
			8, now, pol.InsightExpiry,
		), now)
	} else if summary.WeeklyProgress < pol.ProgressLow && now.Weekday() >= time.Thursday {
		add(newInsight(
			"progress_low_late_week",
			domain.CategorySchedule,
			"The week's been quiet so far. A short session today still turns it around.",
			"schedule_workout",
			6, now, pol.InsightExpiry,
		), now)
	}

	// day-of-week struggle pattern
	if summary.MostMissedWeekday != "" && summary.MostMissedWeekday == now.Weekday().String() {
		add(newInsight(
			"missed_weekday",
			domain.CategorySchedule,
			fmt.Sprintf("%ss tend to slip away. Booking a slot now keeps the habit.", summary.MostMissedWeekday),
			"schedule_workout",
			5, now, pol.InsightExpiry,
		), now)
	}

	// time-of-day heuristics
	if h := now.Hour(); h >= 5 && h < 9 {
		add(newInsight(
			"morning_tip",
			domain.CategoryTip,
			"A morning session sets the tone for the whole day.",
			"",
			4, now, pol.InsightExpiry,
		), now)
	} else if h >= 21 {
		add(newInsight(
			"evening_tip",
			domain.CategoryTip,
			"Late one today. Keep it light and protect your sleep.",
			"",
			3, now, pol.InsightExpiry,
		), now)
	}

	// milestone counts
	if summary.TotalWorkouts > 0 && summary.TotalWorkouts%50 == 0 {
		add(newInsight(
			"milestone",
			domain.CategoryProgress,
			fmt.Sprintf("Workout number %d is in the books. That number took real work.", summary.TotalWorkouts),
			"",
			8, now, pol.InsightExpiry,
		), now)
	}

	// recovery pressure (wellness class, category cooldown applies)
	if summary.RecoveryNeed >= 0.7 {
		add(newInsight(
			"recovery_need",
			domain.CategoryRecovery,
			"Your recent sessions have been running hot. An easier day or full rest will pay you back.",
			"suggest_rest_day",
			7, now, pol.InsightExpiry,
		), now)
	}

	// broken streak comeback (wellness class)
	if summary.StreakDays == 0 && summary.TotalWorkouts > 0 {
		add(newInsight(
			"comeback",
			domain.CategoryMentalHealth,
			"Getting back is the hardest part, and it only takes one session. No catching up required.",
			"open_workout",
			6, now, pol.InsightExpiry,
		), now)
	}

	// repeated declines: suggest again, but gently and optionally. The
	// decline history softens phrasing; it never becomes a hard exclusion.
	for _, flag := range summary.TopDeclineFlags {
		msg := fmt.Sprintf("You've passed on %s a few times lately, and that's completely fine. %s, we can try a small step together.",
			topicLabel(flag.Topic), gentleLeadIn)
		add(newInsight(
			"decline_"+flag.Topic,
			domain.CategorySuggestion,
			msg,
			"",
			5, now, pol.InsightExpiry,
		), flag.LastAt)
	}

	return out
}

func topicLabel(topic string) string {
	switch topic {
	case domain.TopicWeightIncrease:
		return "adding weight"
	case domain.TopicRepIncrease:
		return "adding reps"
	case domain.TopicExtraSet:
		return "an extra set"
	case domain.TopicRestDay:
		return "a rest day"
	default:
		return topic
	}
}
