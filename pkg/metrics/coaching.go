package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the coach summary build path (aggregation included)
	SummaryBuildLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coach_summary_build_latency_seconds",
		Help:    "Latency of building the user coach summary",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of insight requests served
	InsightRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coach_insight_requests_total",
		Help: "Total number of coach insight requests",
	})

	// How many times the caller got the safe default insight because
	// context building failed
	InsightFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coach_insight_fallback_total",
		Help: "Times a safe default insight was served instead of ranked candidates",
	})
)

func Init() {
	prometheus.MustRegister(
		SummaryBuildLatency,
		InsightRequestsTotal,
		InsightFallbackTotal,
	)
}
