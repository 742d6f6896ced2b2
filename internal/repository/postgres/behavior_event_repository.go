package postgres

import (
	"context"
	"fmt"
	"time"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"gorm.io/gorm"
)

// BehaviorEventRepository is the append-only event store. Nothing here ever
// updates or deletes individual rows; pruning is strictly by age.
type BehaviorEventRepository struct {
	DB *gorm.DB
}

var _ coaching.EventRepository = (*BehaviorEventRepository)(nil)

func NewBehaviorEventRepository(db *gorm.DB) *BehaviorEventRepository {
	return &BehaviorEventRepository{DB: db}
}

func (r *BehaviorEventRepository) SaveEvent(ctx context.Context, event domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save behavior event: %w", err)
	}

	return nil
}

func (r *BehaviorEventRepository) ListEventsSince(ctx context.Context, userID uint, since time.Time) ([]domain.BehaviorEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.BehaviorEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior_events: %w", err)
	}

	return events, nil
}

func (r *BehaviorEventRepository) PruneBefore(ctx context.Context, cutoff time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.BehaviorEvent{}).Error; err != nil {
		return fmt.Errorf("failed to prune behavior_events: %w", err)
	}

	return nil
}
