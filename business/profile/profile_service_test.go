package profile

import (
	"context"
	"testing"

	"fitcoach/domain"
)

type fakeProfileRepo struct {
	profiles map[uint]domain.UserProfile
}

func (f *fakeProfileRepo) GetProfile(_ context.Context, userID uint) (domain.UserProfile, bool, error) {
	p, ok := f.profiles[userID]
	return p, ok, nil
}

func (f *fakeProfileRepo) UpsertProfile(_ context.Context, p domain.UserProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func TestGetProfileDefaults(t *testing.T) {
	svc := NewService(&fakeProfileRepo{profiles: map[uint]domain.UserProfile{}})

	got, err := svc.GetProfile(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.CoachPersonality != domain.PersonalityFriendly {
		t.Errorf("personality = %q, want friendly default", got.CoachPersonality)
	}
	if got.WeeklyGoal != 4 {
		t.Errorf("weekly goal = %d, want 4", got.WeeklyGoal)
	}
}

func TestSetPersonality(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[uint]domain.UserProfile{}}
	svc := NewService(repo)

	got, err := svc.SetPersonality(context.Background(), 7, domain.PersonalityCalm, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.CoachPersonality != domain.PersonalityCalm || got.WeeklyGoal != 5 {
		t.Errorf("profile = %+v, want calm with goal 5", got)
	}
	if stored := repo.profiles[7]; stored.CoachPersonality != domain.PersonalityCalm {
		t.Errorf("stored profile = %+v", stored)
	}

	// zero goal keeps the existing one
	got, err = svc.SetPersonality(context.Background(), 7, domain.PersonalityAggressive, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.WeeklyGoal != 5 {
		t.Errorf("weekly goal = %d, want unchanged 5", got.WeeklyGoal)
	}
}

func TestSetPersonalityRejectsUnknown(t *testing.T) {
	svc := NewService(&fakeProfileRepo{profiles: map[uint]domain.UserProfile{}})

	if _, err := svc.SetPersonality(context.Background(), 7, domain.Personality("stoic"), 0); err == nil {
		t.Error("expected error for unknown personality")
	}
}
