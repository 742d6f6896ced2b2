package postgres

import (
	"context"
	"fmt"
	"time"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"gorm.io/gorm"
)

// WorkoutFactsRepository projects the externally owned workout history into
// the handful of derived facts the coach summary needs. Read-only.
type WorkoutFactsRepository struct {
	DB *gorm.DB
}

var _ coaching.WorkoutFactsRepository = (*WorkoutFactsRepository)(nil)

func NewWorkoutFactsRepository(db *gorm.DB) *WorkoutFactsRepository {
	return &WorkoutFactsRepository{DB: db}
}

// factsWindowDays bounds how much history the weekday pattern looks at.
const factsWindowDays = 56

func (r *WorkoutFactsRepository) GetFacts(ctx context.Context, userID uint) (coaching.WorkoutFacts, error) {
	if err := ctx.Err(); err != nil {
		return coaching.WorkoutFacts{}, fmt.Errorf("context error: %w", err)
	}

	now := time.Now()

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&domain.WorkoutSession{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return coaching.WorkoutFacts{}, fmt.Errorf("failed to count workout_sessions: %w", err)
	}

	var completions []time.Time
	if err := r.DB.WithContext(ctx).
		Model(&domain.WorkoutSession{}).
		Where("user_id = ? AND completed_at >= ?", userID, now.AddDate(0, 0, -factsWindowDays)).
		Order("completed_at DESC").
		Pluck("completed_at", &completions).Error; err != nil {
		return coaching.WorkoutFacts{}, fmt.Errorf("failed to query workout_sessions: %w", err)
	}

	weeklyGoal := 4
	var profile domain.UserProfile
	if err := r.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err == nil && profile.WeeklyGoal > 0 {
		weeklyGoal = profile.WeeklyGoal
	}

	return coaching.WorkoutFacts{
		StreakDays:        streakDays(completions, now),
		WeeklyProgress:    weeklyProgress(completions, now, weeklyGoal),
		TotalWorkouts:     int(total),
		MostMissedWeekday: mostMissedWeekday(completions),
	}, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// streakDays counts consecutive workout days ending today or yesterday.
func streakDays(completions []time.Time, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[dayKey(c)] = true
	}

	anchor := now
	if !days[dayKey(anchor)] {
		anchor = anchor.AddDate(0, 0, -1)
		if !days[dayKey(anchor)] {
			return 0
		}
	}

	streak := 0
	for days[dayKey(anchor)] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// weeklyProgress is distinct workout days this ISO week over the weekly goal.
func weeklyProgress(completions []time.Time, now time.Time, weeklyGoal int) float64 {
	if weeklyGoal <= 0 {
		return 0
	}

	year, week := now.ISOWeek()
	days := map[string]bool{}
	for _, c := range completions {
		cy, cw := c.ISOWeek()
		if cy == year && cw == week {
			days[dayKey(c)] = true
		}
	}

	progress := float64(len(days)) / float64(weeklyGoal)
	if progress > 1 {
		progress = 1
	}
	return progress
}

// mostMissedWeekday is the weekday with the fewest sessions in the window,
// ties broken by weekday order. Empty when there is no history at all.
func mostMissedWeekday(completions []time.Time) string {
	if len(completions) == 0 {
		return ""
	}

	var counts [7]int
	for _, c := range completions {
		counts[int(c.Weekday())]++
	}

	minIdx := 0
	for i := 1; i < 7; i++ {
		if counts[i] < counts[minIdx] {
			minIdx = i
		}
	}
	return time.Weekday(minIdx).String()
}
