package coaching

import (
	"context"
	"fmt"
	"time"

	"fitcoach/domain"
	"fitcoach/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ---- Repository interfaces ----

// EventRepository is the append-only behavior event store. ListEventsSince
// returns events newest-first.
type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.BehaviorEvent) error
	ListEventsSince(ctx context.Context, userID uint, since time.Time) ([]domain.BehaviorEvent, error)
	PruneBefore(ctx context.Context, cutoff time.Time) error
}

// TendencyRepository holds one replace-on-write profile row per user.
type TendencyRepository interface {
	GetTendencies(ctx context.Context, userID uint) (*domain.UserTendencies, error)
	ReplaceTendencies(ctx context.Context, t domain.UserTendencies) error
}

// InsightHistoryRepository is the append-only shown-insight log used purely
// for cooldown lookback.
type InsightHistoryRepository interface {
	Append(ctx context.Context, entries []domain.InsightHistoryEntry) error
	ListSince(ctx context.Context, userID uint, since time.Time) ([]domain.InsightHistoryEntry, error)
	PruneBefore(ctx context.Context, cutoff time.Time) error
}

// WorkoutFacts are the cheap derived facts the summary pulls from the
// externally owned workout history store.
type WorkoutFacts struct {
	StreakDays        int
	WeeklyProgress    float64
	TotalWorkouts     int
	MostMissedWeekday string
}

type WorkoutFactsRepository interface {
	GetFacts(ctx context.Context, userID uint) (WorkoutFacts, error)
}

// ProfileRepository reads the user's chosen coach personality.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uint) (domain.UserProfile, bool, error)
}

// SummaryCache holds the bounded summary for a short TTL. Optional; cache
// failures are never surfaced.
type SummaryCache interface {
	Get(ctx context.Context, userID uint) (*domain.UserCoachSummary, error)
	Set(ctx context.Context, summary domain.UserCoachSummary, ttl time.Duration) error
}

// ---- Usecase / Service ----

type CoachingService struct {
	eventRepo     EventRepository
	tendencyRepo  TendencyRepository
	historyRepo   InsightHistoryRepository
	factsRepo     WorkoutFactsRepository
	profileRepo   ProfileRepository
	policyRepo    PolicyRepository
	cache         SummaryCache
	llm           CompletionClient
	validate      *validator.Validate
	personalities map[domain.Personality]ToneProfile
	defaultPolicy Policy
	now           func() time.Time
}

func NewCoachingService(
	eventRepo EventRepository,
	tendencyRepo TendencyRepository,
	historyRepo InsightHistoryRepository,
	factsRepo WorkoutFactsRepository,
	profileRepo ProfileRepository,
	policyRepo PolicyRepository,
	cache SummaryCache,
	llm CompletionClient,
	personalities map[domain.Personality]ToneProfile,
	defaultPolicy Policy,
) *CoachingService {
	return &CoachingService{
		eventRepo:     eventRepo,
		tendencyRepo:  tendencyRepo,
		historyRepo:   historyRepo,
		factsRepo:     factsRepo,
		profileRepo:   profileRepo,
		policyRepo:    policyRepo,
		cache:         cache,
		llm:           llm,
		validate:      validator.New(),
		personalities: personalities,
		defaultPolicy: defaultPolicy,
		now:           time.Now,
	}
}

var validEventTypes = map[string]bool{
	domain.EventWorkoutCompleted:   true,
	domain.EventSuggestionAccepted: true,
	domain.EventSuggestionDeclined: true,
	domain.EventFeedbackSubmitted:  true,
}

// validateEvent rejects malformed events at the ingestion boundary so a bad
// payload never reaches (or crashes) aggregation.
func (s *CoachingService) validateEvent(event domain.BehaviorEvent) error {
	if event.UserID == 0 {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if !validEventTypes[event.EventType] {
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, event.EventType)
	}
	if isSuggestionEvent(event.EventType) && event.Topic == "" {
		return fmt.Errorf("%w: topic is required for suggestion events", ErrValidation)
	}
	if event.ContextMode != "" && !domain.ContextMode(event.ContextMode).Valid() {
		return fmt.Errorf("%w: unknown context mode %q", ErrValidation, event.ContextMode)
	}
	if event.Payload != nil {
		if raw, ok := event.Payload["difficulty"].(string); ok {
			if _, ok := domain.ParseDifficulty(raw); !ok {
				return fmt.Errorf("%w: unknown difficulty %q", ErrValidation, raw)
			}
		}
	}
	return nil
}

// RecordEvent appends a behavior event. Learning is best-effort relative to
// the user action that produced the event: a store failure is logged and
// counted but the caller still gets an ack. Only validation errors surface.
func (s *CoachingService) RecordEvent(ctx context.Context, event domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.validateEvent(event); err != nil {
		return err
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}

	tid := TraceIDFromContext(ctx)
	logger.Debug("coaching_record_event",
		"trace_id", tid,
		"user_id", event.UserID,
		"event_type", event.EventType,
		"topic", event.Topic,
		"context_mode", event.ContextMode,
	)

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		logger.Error("coaching: failed to save behavior event", "user_id", event.UserID, err)
		EventStoreFailuresTotal.Inc()
		return nil
	}

	BehaviorEventsTotal.
		WithLabelValues(event.EventType, event.ContextMode).
		Inc()

	return nil
}

// AdaptMessage applies the user-selected personality and context mode to an
// already-decided message. Pure passthrough to the adapter with the
// service's personality table.
func (s *CoachingService) AdaptMessage(message string, personality domain.Personality, mode domain.ContextMode) string {
	return AdaptMessage(message, personality, mode, s.personalities)
}

// BuildChatPrompt hands the chat layer its system prompt for the given
// mode. The prompt sees only the bounded summary, never events.
func (s *CoachingService) BuildChatPrompt(ctx context.Context, userID uint, mode domain.ContextMode) (string, error) {
	summary, err := s.GetCoachSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	return BuildSystemPrompt(summary, mode, s.personalities), nil
}
