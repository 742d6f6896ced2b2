package coaching

import "fitcoach/domain"

// Per-event signal values feeding the decayed means. The neutral midpoint
// for every scalar tendency is 0.5.
const (
	neutralSignal = 0.5

	confirmationDeclineSignal = 1.0
	confirmationAcceptSignal  = 0.0

	loadAcceptSignal  = 1.0
	loadDeclineSignal = 0.2

	loadEasySignal    = 0.9
	loadPerfectSignal = 0.7
	loadTooHardSignal = 0.2

	recoveryEasySignal    = 0.1
	recoveryPerfectSignal = 0.4
	recoveryTooHardSignal = 0.9
	recoveryRestAccept    = 0.8
	recoveryRestDecline   = 0.2

	movementEasySignal    = 0.9
	movementPerfectSignal = 0.75
	movementTooHardSignal = 0.25
	movementAcceptSignal  = 0.8
	movementDeclineSignal = 0.3
)

var loadTopics = map[string]bool{
	domain.TopicWeightIncrease: true,
	domain.TopicRepIncrease:    true,
}

var suggestionTopics = map[string]bool{
	domain.TopicWeightIncrease: true,
	domain.TopicRepIncrease:    true,
	domain.TopicExtraSet:       true,
	domain.TopicRestDay:        true,
}

func isSuggestionEvent(eventType string) bool {
	return eventType == domain.EventSuggestionAccepted ||
		eventType == domain.EventSuggestionDeclined
}

// eventDifficulty pulls the feedback rating out of the payload.
func eventDifficulty(ev domain.BehaviorEvent) (domain.Difficulty, bool) {
	if ev.EventType != domain.EventFeedbackSubmitted || ev.Payload == nil {
		return "", false
	}
	raw, ok := ev.Payload["difficulty"].(string)
	if !ok {
		return "", false
	}
	return domain.ParseDifficulty(raw)
}

// eventMovement resolves which movement an event is about. An explicit
// payload key wins; otherwise a topic outside the known suggestion set is
// taken to be a movement name.
func eventMovement(ev domain.BehaviorEvent) (string, bool) {
	if ev.Payload != nil {
		if m, ok := ev.Payload["movement"].(string); ok && m != "" {
			return m, true
		}
	}
	if ev.Topic != "" && !suggestionTopics[ev.Topic] {
		return ev.Topic, true
	}
	return "", false
}

func confirmationSignal(ev domain.BehaviorEvent) (float64, bool) {
	switch ev.EventType {
	case domain.EventSuggestionDeclined:
		return confirmationDeclineSignal, true
	case domain.EventSuggestionAccepted:
		return confirmationAcceptSignal, true
	}
	return 0, false
}

func loadConfidenceSignal(ev domain.BehaviorEvent) (float64, bool) {
	if isSuggestionEvent(ev.EventType) && loadTopics[ev.Topic] {
		if ev.EventType == domain.EventSuggestionAccepted {
			return loadAcceptSignal, true
		}
		return loadDeclineSignal, true
	}

	if d, ok := eventDifficulty(ev); ok {
		switch d {
		case domain.DifficultyEasy:
			return loadEasySignal, true
		case domain.DifficultyPerfect:
			return loadPerfectSignal, true
		case domain.DifficultyTooHard:
			return loadTooHardSignal, true
		}
	}

	return 0, false
}

func recoverySignal(ev domain.BehaviorEvent) (float64, bool) {
	if d, ok := eventDifficulty(ev); ok {
		switch d {
		case domain.DifficultyEasy:
			return recoveryEasySignal, true
		case domain.DifficultyPerfect:
			return recoveryPerfectSignal, true
		case domain.DifficultyTooHard:
			return recoveryTooHardSignal, true
		}
	}

	if ev.Topic == domain.TopicRestDay && isSuggestionEvent(ev.EventType) {
		if ev.EventType == domain.EventSuggestionAccepted {
			return recoveryRestAccept, true
		}
		return recoveryRestDecline, true
	}

	return 0, false
}

func movementSignal(ev domain.BehaviorEvent) (float64, bool) {
	if d, ok := eventDifficulty(ev); ok {
		switch d {
		case domain.DifficultyEasy:
			return movementEasySignal, true
		case domain.DifficultyPerfect:
			return movementPerfectSignal, true
		case domain.DifficultyTooHard:
			return movementTooHardSignal, true
		}
	}

	if isSuggestionEvent(ev.EventType) {
		if ev.EventType == domain.EventSuggestionAccepted {
			return movementAcceptSignal, true
		}
		return movementDeclineSignal, true
	}

	return 0, false
}
