package postgres

import (
	"context"
	"fmt"
	"time"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"gorm.io/gorm"
)

// InsightHistoryRepository is the append-only shown-insight log.
type InsightHistoryRepository struct {
	DB *gorm.DB
}

var _ coaching.InsightHistoryRepository = (*InsightHistoryRepository)(nil)

func NewInsightHistoryRepository(db *gorm.DB) *InsightHistoryRepository {
	return &InsightHistoryRepository{DB: db}
}

func (r *InsightHistoryRepository) Append(ctx context.Context, entries []domain.InsightHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to append insight_history: %w", err)
	}

	return nil
}

func (r *InsightHistoryRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]domain.InsightHistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.InsightHistoryEntry
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND shown_at >= ?", userID, since).
		Order("shown_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query insight_history: %w", err)
	}

	return entries, nil
}

func (r *InsightHistoryRepository) PruneBefore(ctx context.Context, cutoff time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Where("shown_at < ?", cutoff).
		Delete(&domain.InsightHistoryEntry{}).Error; err != nil {
		return fmt.Errorf("failed to prune insight_history: %w", err)
	}

	return nil
}
