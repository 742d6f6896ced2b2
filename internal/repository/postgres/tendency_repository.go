package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TendencyRepository stores the decayed profile as a single jsonb blob per
// user, replaced whole on every write so concurrent aggregation passes can
// only ever race complete rows.
type TendencyRepository struct {
	DB *gorm.DB
}

var _ coaching.TendencyRepository = (*TendencyRepository)(nil)

func NewTendencyRepository(db *gorm.DB) *TendencyRepository {
	return &TendencyRepository{DB: db}
}

func (r *TendencyRepository) GetTendencies(ctx context.Context, userID uint) (*domain.UserTendencies, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row domain.UserTendencyRecord
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user_tendencies: %w", err)
	}

	var tendencies domain.UserTendencies
	if err := json.Unmarshal(row.TendenciesJSON, &tendencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tendencies_json: %w", err)
	}

	return &tendencies, nil
}

func (r *TendencyRepository) ReplaceTendencies(ctx context.Context, t domain.UserTendencies) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tendencies: %w", err)
	}

	row := domain.UserTendencyRecord{
		UserID:         t.UserID,
		TendenciesJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert user_tendencies: %w", err)
	}

	return nil
}
