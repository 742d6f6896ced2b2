package coaching

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BehaviorEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coaching_behavior_events_total",
			Help: "Count of recorded behavior events by event_type and context_mode.",
		},
		[]string{"event_type", "context_mode"},
	)

	EventStoreFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coaching_event_store_failures_total",
			Help: "Behavior events dropped because the store was unreachable.",
		},
	)

	InsightsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coaching_insights_served_total",
			Help: "Count of surfaced coach insights by category.",
		},
		[]string{"category"},
	)

	LLMFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coaching_llm_fallback_total",
			Help: "Times the AI insight variant was skipped due to timeout or error.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		BehaviorEventsTotal,
		EventStoreFailuresTotal,
		InsightsServedTotal,
		LLMFallbackTotal,
	)
}
