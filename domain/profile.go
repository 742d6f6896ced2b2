package domain

import "time"

// UserProfile holds the coaching preferences a user can edit directly.
// One row per user, replace-on-write.
type UserProfile struct {
	UserID           uint        `gorm:"column:user_id;primaryKey" json:"user_id"`
	CoachPersonality Personality `gorm:"column:coach_personality;default:friendly" json:"coach_personality"`
	WeeklyGoal       int         `gorm:"column:weekly_goal;default:4" json:"weekly_goal"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// WorkoutSession is a completed workout row from the (externally owned)
// workout history store. The engine only ever reads it.
type WorkoutSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
}

func (WorkoutSession) TableName() string {
	return "workout_sessions"
}
