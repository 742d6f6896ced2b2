package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Behavior event types consumed by the learning engine.
const (
	EventWorkoutCompleted   = "workout_completed"
	EventSuggestionAccepted = "suggestion_accepted"
	EventSuggestionDeclined = "suggestion_declined"
	EventFeedbackSubmitted  = "feedback_submitted"
)

// Well-known suggestion topics. Any other topic is treated as a movement name.
const (
	TopicWeightIncrease = "weight_increase"
	TopicRepIncrease    = "rep_increase"
	TopicExtraSet       = "extra_set"
	TopicRestDay        = "rest_day"
)

// BehaviorEvent is an append-only record of a learning-relevant user action.
// Rows are never updated or deleted, only pruned by age.
type BehaviorEvent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"column:user_id;not null;index:idx_behavior_events_user_time" json:"user_id"`
	EventType   string            `gorm:"column:event_type;not null" json:"event_type"`
	Topic       string            `gorm:"column:topic" json:"topic"`
	ContextMode string            `gorm:"column:context_mode" json:"context_mode"`
	Payload     datatypes.JSONMap `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_behavior_events_user_time" json:"created_at"`
}

func (BehaviorEvent) TableName() string {
	return "behavior_events"
}

// Difficulty is the closed set of workout feedback ratings.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyPerfect Difficulty = "perfect"
	DifficultyTooHard Difficulty = "too_hard"
)

// ParseDifficulty maps a free-form payload value onto the closed enum.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyPerfect, DifficultyTooHard:
		return Difficulty(s), true
	default:
		return "", false
	}
}

// Progression pace buckets.
const (
	PaceSlow     = "slow"
	PaceModerate = "moderate"
	PaceFast     = "fast"
)

// DeclineStat tracks consecutive declines on one suggestion topic.
// Count is fractional: an acceptance decays it toward zero but the
// entry itself is never removed while inside the event window.
type DeclineStat struct {
	Topic  string    `json:"topic"`
	Count  float64   `json:"count"`
	LastAt time.Time `json:"last_at"`
}

// UserTendencies is the decayed behavioral profile for one user.
// Recomputed as a full replacement row on every aggregation pass.
type UserTendencies struct {
	UserID              uint               `json:"user_id"`
	ProgressionPace     string             `json:"progression_pace"`
	PrefersConfirmation float64            `json:"prefers_confirmation"`
	ConfidenceWithLoad  float64            `json:"confidence_with_load"`
	RecoveryNeed        float64            `json:"recovery_need"`
	MovementConfidence  map[string]float64 `json:"movement_confidence"`
	RecentDeclines      []DeclineStat      `json:"recent_declines"`
	LastUpdated         time.Time          `json:"last_updated"`
}

// UserTendencyRecord is the persisted form of UserTendencies: one row per
// user, the profile itself stored as a jsonb blob and replaced whole on
// every write. Partial updates are never issued against this row.
type UserTendencyRecord struct {
	UserID         uint           `gorm:"column:user_id;primaryKey" json:"user_id"`
	TendenciesJSON datatypes.JSON `gorm:"column:tendencies_json;type:jsonb" json:"tendencies_json"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserTendencyRecord) TableName() string {
	return "user_tendencies"
}

// Coaching personalities.
type Personality string

const (
	PersonalityAggressive  Personality = "aggressive"
	PersonalityDisciplined Personality = "disciplined"
	PersonalityCalm        Personality = "calm"
	PersonalityFriendly    Personality = "friendly"
)

var validPersonalities = map[Personality]bool{
	PersonalityAggressive:  true,
	PersonalityDisciplined: true,
	PersonalityCalm:        true,
	PersonalityFriendly:    true,
}

func (p Personality) Valid() bool {
	return validPersonalities[p]
}

// ContextMode is the interaction situation a message is delivered in.
type ContextMode string

const (
	ModeInWorkout   ContextMode = "in_workout"
	ModePostWorkout ContextMode = "post_workout"
	ModeHome        ContextMode = "home"
	ModeChat        ContextMode = "chat"
)

var validContextModes = map[ContextMode]bool{
	ModeInWorkout:   true,
	ModePostWorkout: true,
	ModeHome:        true,
	ModeChat:        true,
}

func (m ContextMode) Valid() bool {
	return validContextModes[m]
}

// MovementScore pairs a movement with its confidence, lowest-first in summaries.
type MovementScore struct {
	Movement   string  `json:"movement"`
	Confidence float64 `json:"confidence"`
}

// UserCoachSummary is the single bounded object exposed to prompt
// construction. Fixed fields, capped lists, never raw events.
type UserCoachSummary struct {
	UserID              uint            `json:"user_id"`
	CoachPersonality    Personality     `json:"coach_personality"`
	StreakDays          int             `json:"streak_days"`
	WeeklyProgress      float64         `json:"weekly_progress"`
	TotalWorkouts       int             `json:"total_workouts"`
	MostMissedWeekday   string          `json:"most_missed_weekday,omitempty"`
	ProgressionPace     string          `json:"progression_pace"`
	PrefersConfirmation float64         `json:"prefers_confirmation"`
	ConfidenceWithLoad  float64         `json:"confidence_with_load"`
	RecoveryNeed        float64         `json:"recovery_need"`
	WeakestMovements    []MovementScore `json:"weakest_movements,omitempty"`
	TopDeclineFlags     []DeclineStat   `json:"top_decline_flags,omitempty"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// Insight categories.
const (
	CategoryMotivation   = "motivation"
	CategoryProgress     = "progress"
	CategorySchedule     = "schedule"
	CategoryTip          = "tip"
	CategoryStreak       = "streak"
	CategoryRecovery     = "recovery"
	CategorySuggestion   = "suggestion"
	CategoryMentalHealth = "mental_health"
	CategoryWellness     = "wellness"
)

// CoachInsight is an ephemeral candidate coaching message. Key identifies
// the rule that produced it and is what the anti-spam log tracks; ID is
// unique per generation.
type CoachInsight struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Message     string    `json:"message"`
	Category    string    `json:"category"`
	Action      string    `json:"action,omitempty"`
	Priority    int       `json:"priority"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InsightHistoryEntry records that an insight was surfaced, for cooldown
// lookback only. Append-only, pruned past the lookback window.
type InsightHistoryEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;index:idx_insight_history_user_time" json:"user_id"`
	Category   string    `gorm:"column:category;not null" json:"category"`
	InsightKey string    `gorm:"column:insight_key;not null" json:"insight_key"`
	ShownAt    time.Time `gorm:"column:shown_at;not null;index:idx_insight_history_user_time" json:"shown_at"`
}

func (InsightHistoryEntry) TableName() string {
	return "insight_history"
}
