package coaching

import (
	"math"
	"time"
)

// decayWeight down-weights an event by age: exp(-lambda * ageDays).
// With the default lambda a 30-day-old event carries ~0.22x the weight
// of a same-day one.
func decayWeight(lambda float64, age time.Duration) float64 {
	ageDays := age.Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-lambda * ageDays)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// decayedMean accumulates a weighted mean of per-event signals.
type decayedMean struct {
	sum     float64
	weights float64
}

func (m *decayedMean) add(weight, value float64) {
	m.sum += weight * value
	m.weights += weight
}

// value returns the clamped mean, or fallback when no signal accumulated.
func (m *decayedMean) value(fallback float64) float64 {
	if m.weights <= 0 {
		return fallback
	}
	return clamp01(m.sum / m.weights)
}
