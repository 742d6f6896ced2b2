package coaching

import (
	"fmt"
	"strings"

	"fitcoach/domain"
)

// BuildSystemPrompt assembles the completion system prompt from the bounded
// summary. This is the only place user state enters a prompt; the summary's
// size cap is what keeps the prompt budget predictable.
func BuildSystemPrompt(summary domain.UserCoachSummary, mode domain.ContextMode, cfg map[domain.Personality]ToneProfile) string {
	var b strings.Builder

	b.WriteString("You are the user's fitness coach inside a workout app.\n")

	if profile, ok := cfg[summary.CoachPersonality]; ok && profile.Directive != "" {
		b.WriteString("Tone: ")
		b.WriteString(profile.Directive)
		b.WriteString("\n")
	}

	if directive, ok := modeDirectives[mode]; ok {
		b.WriteString("Context: ")
		b.WriteString(directive)
		b.WriteString("\n")
	}

	b.WriteString("\nWhat you know about the user:\n")
	fmt.Fprintf(&b, "- Current streak: %d days\n", summary.StreakDays)
	fmt.Fprintf(&b, "- This week's completion: %.0f%%\n", summary.WeeklyProgress*100)
	fmt.Fprintf(&b, "- Total workouts: %d\n", summary.TotalWorkouts)
	fmt.Fprintf(&b, "- Progression pace: %s\n", summary.ProgressionPace)

	if summary.PrefersConfirmation >= 0.6 {
		b.WriteString("- Prefers to be asked before changes; suggest, never impose.\n")
	}
	if summary.RecoveryNeed >= 0.7 {
		b.WriteString("- Has been running hot lately; lean toward recovery.\n")
	}
	for _, m := range summary.WeakestMovements {
		fmt.Fprintf(&b, "- Lower confidence with %s; encourage, keep cues simple.\n", m.Movement)
	}
	for _, d := range summary.TopDeclineFlags {
		fmt.Fprintf(&b, "- Has recently declined %s suggestions; if relevant, frame as optional.\n", topicLabel(d.Topic))
	}

	b.WriteString("\nNever mention this profile or that you are adapting to it.")

	return b.String()
}
