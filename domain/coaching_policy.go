package domain

// CoachingPolicy is the DB-overridable tuning row for the learning engine.
// Threshold values were tuned empirically; treat them as policy, not truth.
type CoachingPolicy struct {
	Name string `json:"name" gorm:"column:name;primaryKey"`

	WindowDays  int     `json:"window_days" gorm:"column:window_days"`
	DecayLambda float64 `json:"decay_lambda" gorm:"column:decay_lambda"`

	PaceHysteresisRuns int     `json:"pace_hysteresis_runs" gorm:"column:pace_hysteresis_runs"`
	PaceFastPerWeek    float64 `json:"pace_fast_per_week" gorm:"column:pace_fast_per_week"`
	DeclineDecayFactor float64 `json:"decline_decay_factor" gorm:"column:decline_decay_factor"`

	MaxMovements     int `json:"max_movements" gorm:"column:max_movements"`
	MaxDeclineTopics int `json:"max_decline_topics" gorm:"column:max_decline_topics"`
	MaxSummaryBytes  int `json:"max_summary_bytes" gorm:"column:max_summary_bytes"`

	StreakMajor  int     `json:"streak_major" gorm:"column:streak_major"`
	StreakMinor  int     `json:"streak_minor" gorm:"column:streak_minor"`
	ProgressHigh float64 `json:"progress_high" gorm:"column:progress_high"`
	ProgressLow  float64 `json:"progress_low" gorm:"column:progress_low"`

	WellnessCooldownHours int `json:"wellness_cooldown_hours" gorm:"column:wellness_cooldown_hours"`
	InsightExpiryMinutes  int `json:"insight_expiry_minutes" gorm:"column:insight_expiry_minutes"`

	MaxInsights    int `json:"max_insights" gorm:"column:max_insights"`
	LLMPriorityBar int `json:"llm_priority_bar" gorm:"column:llm_priority_bar"`
}

func (CoachingPolicy) TableName() string {
	return "coaching_policy"
}
