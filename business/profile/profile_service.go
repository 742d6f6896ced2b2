package profile

import (
	"context"
	"fmt"

	"fitcoach/domain"
)

// ProfileRepository contract interface
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uint) (domain.UserProfile, bool, error)
	UpsertProfile(ctx context.Context, profile domain.UserProfile) error
}

type Service struct {
	repo ProfileRepository
}

func NewService(repo ProfileRepository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the stored profile, or defaults when none exists yet.
func (s *Service) GetProfile(ctx context.Context, userID uint) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("context error: %w", err)
	}

	profile, ok, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return domain.UserProfile{
			UserID:           userID,
			CoachPersonality: domain.PersonalityFriendly,
			WeeklyGoal:       4,
		}, nil
	}

	return profile, nil
}

// SetPersonality stores the user's coaching personality choice. A
// weeklyGoal of zero keeps the current goal.
func (s *Service) SetPersonality(ctx context.Context, userID uint, personality domain.Personality, weeklyGoal int) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("context error: %w", err)
	}

	if !personality.Valid() {
		return domain.UserProfile{}, fmt.Errorf("unknown personality: %s", personality)
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile.CoachPersonality = personality
	if weeklyGoal > 0 {
		profile.WeeklyGoal = weeklyGoal
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}

	return profile, nil
}
