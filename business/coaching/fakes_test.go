package coaching

import (
	"context"
	"errors"
	"time"

	"fitcoach/domain"
)

// In-memory fakes for the repository seams. Each can be flipped into a
// failing state to exercise the degraded paths.

type fakeEventRepo struct {
	events   []domain.BehaviorEvent
	failSave bool
	failList bool
}

func (f *fakeEventRepo) SaveEvent(_ context.Context, event domain.BehaviorEvent) error {
	if f.failSave {
		return errors.New("save failed")
	}
	f.events = append(f.events, event)
	return nil
}

// ListEventsSince returns newest-first, matching the postgres repository.
func (f *fakeEventRepo) ListEventsSince(_ context.Context, userID uint, since time.Time) ([]domain.BehaviorEvent, error) {
	if f.failList {
		return nil, errors.New("list failed")
	}
	var out []domain.BehaviorEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		ev := f.events[i]
		if ev.UserID == userID && ev.CreatedAt.After(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) PruneBefore(_ context.Context, cutoff time.Time) error {
	kept := f.events[:0]
	for _, ev := range f.events {
		if !ev.CreatedAt.Before(cutoff) {
			kept = append(kept, ev)
		}
	}
	f.events = kept
	return nil
}

type fakeTendencyRepo struct {
	stored map[uint]domain.UserTendencies
}

func newFakeTendencyRepo() *fakeTendencyRepo {
	return &fakeTendencyRepo{stored: map[uint]domain.UserTendencies{}}
}

func (f *fakeTendencyRepo) GetTendencies(_ context.Context, userID uint) (*domain.UserTendencies, error) {
	t, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTendencyRepo) ReplaceTendencies(_ context.Context, t domain.UserTendencies) error {
	f.stored[t.UserID] = t
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.InsightHistoryEntry
}

func (f *fakeHistoryRepo) Append(_ context.Context, entries []domain.InsightHistoryEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeHistoryRepo) ListSince(_ context.Context, userID uint, since time.Time) ([]domain.InsightHistoryEntry, error) {
	var out []domain.InsightHistoryEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.ShownAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) PruneBefore(_ context.Context, cutoff time.Time) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !e.ShownAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeFactsRepo struct {
	facts WorkoutFacts
	err   error
}

func (f *fakeFactsRepo) GetFacts(_ context.Context, _ uint) (WorkoutFacts, error) {
	return f.facts, f.err
}

type fakeProfileRepo struct {
	profiles map[uint]domain.UserProfile
}

func (f *fakeProfileRepo) GetProfile(_ context.Context, userID uint) (domain.UserProfile, bool, error) {
	if f.profiles == nil {
		return domain.UserProfile{}, false, nil
	}
	p, ok := f.profiles[userID]
	return p, ok, nil
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(_ context.Context, _ CompletionRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

type testEnv struct {
	svc     *CoachingService
	events  *fakeEventRepo
	history *fakeHistoryRepo
	facts   *fakeFactsRepo
	llm     *fakeLLM
	now     time.Time
}

// newTestEnv wires the service to in-memory fakes with a fixed clock.
// A Monday at noon keeps the weekday and time-of-day rules quiet unless a
// test sets up their triggers explicitly.
func newTestEnv() *testEnv {
	env := &testEnv{
		events:  &fakeEventRepo{},
		history: &fakeHistoryRepo{},
		facts:   &fakeFactsRepo{},
		llm:     &fakeLLM{reply: "A nudge from the model."},
		now:     time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
	}

	env.svc = NewCoachingService(
		env.events,
		newFakeTendencyRepo(),
		env.history,
		env.facts,
		&fakeProfileRepo{},
		nil,
		nil,
		env.llm,
		DefaultPersonalityConfig(),
		DefaultPolicy(),
	)
	env.svc.now = func() time.Time { return env.now }

	return env
}
