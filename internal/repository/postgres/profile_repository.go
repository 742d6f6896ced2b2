package postgres

import (
	"context"
	"fmt"

	"fitcoach/business/profile"
	"fitcoach/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

var _ profile.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID uint) (domain.UserProfile, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("context error: %w", err)
	}

	var row domain.UserProfile
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("failed to query user_profiles: %w", err)
	}

	return row, true, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, p domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"coach_personality", "weekly_goal", "updated_at"}),
		}).
		Create(&p).Error; err != nil {
		return fmt.Errorf("failed to upsert user_profiles: %w", err)
	}

	return nil
}
