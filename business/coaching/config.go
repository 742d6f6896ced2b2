package coaching

import (
	"context"
	"time"

	"fitcoach/domain"
)

// Policy bundles every tunable the engine consumes. Values come from
// DefaultPolicy overridden by the coaching_policy row if one exists.
// All thresholds were tuned empirically and carry no deeper semantics.
type Policy struct {
	// aggregation
	WindowDays         int
	DecayLambda        float64
	PaceHysteresisRuns int
	PaceFastPerWeek    float64
	DeclineDecayFactor float64

	// summary bounds
	MaxMovements     int
	MaxDeclineTopics int
	MaxSummaryBytes  int
	SummaryCacheTTL  time.Duration

	// insight thresholds
	StreakMajor  int
	StreakMinor  int
	ProgressHigh float64
	ProgressLow  float64

	// anti-spam
	WellnessCooldown time.Duration
	InsightExpiry    time.Duration

	// selection
	MaxInsights    int
	LLMPriorityBar int
	LLMTimeout     time.Duration
}

const (
	defaultWindowDays         = 70
	defaultDecayLambda        = 0.05
	defaultPaceHysteresisRuns = 3
	defaultPaceFastPerWeek    = 2.0
	defaultDeclineDecayFactor = 0.5

	defaultMaxMovements     = 5
	defaultMaxDeclineTopics = 3
	defaultMaxSummaryBytes  = 2048

	defaultStreakMajor  = 7
	defaultStreakMinor  = 3
	defaultProgressHigh = 0.8
	defaultProgressLow  = 0.3

	defaultWellnessCooldown = 7 * 24 * time.Hour
	defaultInsightExpiry    = 4 * time.Hour
	defaultSummaryCacheTTL  = 60 * time.Second

	defaultMaxInsights    = 3
	defaultLLMPriorityBar = 8
	defaultLLMTimeout     = 8 * time.Second
)

func DefaultPolicy() Policy {
	return Policy{
		WindowDays:         defaultWindowDays,
		DecayLambda:        defaultDecayLambda,
		PaceHysteresisRuns: defaultPaceHysteresisRuns,
		PaceFastPerWeek:    defaultPaceFastPerWeek,
		DeclineDecayFactor: defaultDeclineDecayFactor,

		MaxMovements:     defaultMaxMovements,
		MaxDeclineTopics: defaultMaxDeclineTopics,
		MaxSummaryBytes:  defaultMaxSummaryBytes,
		SummaryCacheTTL:  defaultSummaryCacheTTL,

		StreakMajor:  defaultStreakMajor,
		StreakMinor:  defaultStreakMinor,
		ProgressHigh: defaultProgressHigh,
		ProgressLow:  defaultProgressLow,

		WellnessCooldown: defaultWellnessCooldown,
		InsightExpiry:    defaultInsightExpiry,

		MaxInsights:    defaultMaxInsights,
		LLMPriorityBar: defaultLLMPriorityBar,
		LLMTimeout:     defaultLLMTimeout,
	}
}

// PolicyRepository reads the tuning row from the DB, if present.
type PolicyRepository interface {
	GetPolicy(ctx context.Context, name string) (domain.CoachingPolicy, bool, error)
	UpsertPolicy(ctx context.Context, p domain.CoachingPolicy) error
}

// PolicyName is the single row the engine reads today. Kept as a key so
// per-cohort policies can be introduced without a schema change.
const PolicyName = "default"

// loadPolicy merges the DB row over the service defaults. Any repo failure
// falls back to defaults; policy reads must never block the request path.
func (s *CoachingService) loadPolicy(ctx context.Context) Policy {
	if s.policyRepo == nil {
		return s.defaultPolicy
	}

	row, ok, err := s.policyRepo.GetPolicy(ctx, PolicyName)
	if err != nil || !ok {
		return s.defaultPolicy
	}

	pol := s.defaultPolicy

	if row.WindowDays > 0 {
		pol.WindowDays = row.WindowDays
	}
	if row.DecayLambda > 0 {
		pol.DecayLambda = row.DecayLambda
	}
	if row.PaceHysteresisRuns > 0 {
		pol.PaceHysteresisRuns = row.PaceHysteresisRuns
	}
	if row.PaceFastPerWeek > 0 {
		pol.PaceFastPerWeek = row.PaceFastPerWeek
	}
	if row.DeclineDecayFactor > 0 && row.DeclineDecayFactor < 1 {
		pol.DeclineDecayFactor = row.DeclineDecayFactor
	}
	if row.MaxMovements > 0 {
		pol.MaxMovements = row.MaxMovements
	}
	if row.MaxDeclineTopics > 0 {
		pol.MaxDeclineTopics = row.MaxDeclineTopics
	}
	if row.MaxSummaryBytes > 0 {
		pol.MaxSummaryBytes = row.MaxSummaryBytes
	}
	if row.StreakMajor > 0 {
		pol.StreakMajor = row.StreakMajor
	}
	if row.StreakMinor > 0 {
		pol.StreakMinor = row.StreakMinor
	}
	if row.ProgressHigh > 0 {
		pol.ProgressHigh = row.ProgressHigh
	}
	if row.ProgressLow > 0 {
		pol.ProgressLow = row.ProgressLow
	}
	if row.WellnessCooldownHours > 0 {
		pol.WellnessCooldown = time.Duration(row.WellnessCooldownHours) * time.Hour
	}
	if row.InsightExpiryMinutes > 0 {
		pol.InsightExpiry = time.Duration(row.InsightExpiryMinutes) * time.Minute
	}
	if row.MaxInsights > 0 {
		pol.MaxInsights = row.MaxInsights
	}
	if row.LLMPriorityBar > 0 {
		pol.LLMPriorityBar = row.LLMPriorityBar
	}

	return pol
}
