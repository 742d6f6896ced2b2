package postgres

import (
	"context"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoachingPolicyRepository struct {
	DB *gorm.DB
}

var _ coaching.PolicyRepository = (*CoachingPolicyRepository)(nil)

func NewCoachingPolicyRepository(db *gorm.DB) *CoachingPolicyRepository {
	return &CoachingPolicyRepository{DB: db}
}

func (r *CoachingPolicyRepository) GetPolicy(ctx context.Context, name string) (domain.CoachingPolicy, bool, error) {
	var pol domain.CoachingPolicy

	err := r.DB.WithContext(ctx).
		Where("name = ?", name).
		First(&pol).Error
	if err == gorm.ErrRecordNotFound {
		return domain.CoachingPolicy{}, false, nil
	}
	if err != nil {
		return domain.CoachingPolicy{}, false, err
	}

	return pol, true, nil
}

func (r *CoachingPolicyRepository) UpsertPolicy(ctx context.Context, pol domain.CoachingPolicy) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"window_days",
				"decay_lambda",
				"pace_hysteresis_runs",
				"pace_fast_per_week",
				"decline_decay_factor",
				"max_movements",
				"max_decline_topics",
				"max_summary_bytes",
				"streak_major",
				"streak_minor",
				"progress_high",
				"progress_low",
				"wellness_cooldown_hours",
				"insight_expiry_minutes",
				"max_insights",
				"llm_priority_bar",
			}),
		}).
		Create(&pol).Error
}
