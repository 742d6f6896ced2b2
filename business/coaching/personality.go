package coaching

import (
	"strings"

	"fitcoach/domain"
)

// ToneProfile is one personality's deterministic textual transform. No
// randomness and no state: the same input always yields the same output.
type ToneProfile struct {
	// Suffix is appended as its own sentence.
	Suffix string
	// Exclaim upgrades the final period of the original message.
	Exclaim bool
	// Soften downgrades every exclamation mark to a period.
	Soften bool
	// MaxSentences trims verbosity; 0 means unlimited.
	MaxSentences int
	// Directive is the line added to LLM system prompts.
	Directive string
}

// DefaultPersonalityConfig is passed into the service at construction.
// Keyed by the closed personality enum; callers may swap in their own map
// (there is no package-level mutable table).
func DefaultPersonalityConfig() map[domain.Personality]ToneProfile {
	return map[domain.Personality]ToneProfile{
		domain.PersonalityAggressive: {
			Suffix:       "No excuses.",
			Exclaim:      true,
			MaxSentences: 2,
			Directive:    "Be blunt, demanding and high-energy. Short sentences. Push hard, but never insult.",
		},
		domain.PersonalityDisciplined: {
			Suffix:       "Stick to the plan.",
			MaxSentences: 3,
			Directive:    "Be precise and structured. Reference the plan and concrete numbers. No fluff.",
		},
		domain.PersonalityCalm: {
			Suffix:    "No pressure.",
			Soften:    true,
			Directive: "Be gentle and reassuring. Offer options, never commands. Keep a quiet, steady tone.",
		},
		domain.PersonalityFriendly: {
			Suffix:    "You've got this!",
			Directive: "Be warm and upbeat, like a supportive friend. Celebrate small wins.",
		},
	}
}

// In-workout responses are hard-capped; this block must be included
// verbatim in any system prompt built for that mode.
const InWorkoutConstraint = "Respond in at most 2 short sentences and no more than 160 characters. No lists, no headings, no emoji. The user is mid-workout."

var modeDirectives = map[domain.ContextMode]string{
	domain.ModeInWorkout:   InWorkoutConstraint,
	domain.ModePostWorkout: "The user just finished a workout. Acknowledge the effort first, then at most one forward-looking note.",
	domain.ModeHome:        "The user is browsing their home screen. Keep messages self-contained; they may act on them later or not at all.",
	domain.ModeChat:        "Free-form conversation. Answer what was asked before coaching; never force a workout pitch into the reply.",
}

// AdaptMessage rewrites presentation only. It never consults events or
// tendencies; the content is already decided by the time it gets here.
func AdaptMessage(message string, personality domain.Personality, mode domain.ContextMode, cfg map[domain.Personality]ToneProfile) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return message
	}

	profile, ok := cfg[personality]
	if !ok {
		return message
	}

	if profile.Soften {
		message = strings.ReplaceAll(message, "!", ".")
	}

	limit := profile.MaxSentences
	if mode == domain.ModeInWorkout && (limit == 0 || limit > 1) {
		limit = 1
	}
	if limit > 0 {
		message = trimSentences(message, limit)
	}

	if profile.Exclaim && strings.HasSuffix(message, ".") {
		message = strings.TrimSuffix(message, ".") + "!"
	}

	// mid-workout gets no tone padding; brevity wins
	if profile.Suffix != "" && mode != domain.ModeInWorkout {
		message = message + " " + profile.Suffix
	}

	return message
}

// trimSentences keeps the first n sentences, counting terminal punctuation.
func trimSentences(message string, n int) string {
	count := 0
	for i, r := range message {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(message[:i+1])
			}
		}
	}
	return message
}
