package coaching

import "context"

// CompletionRequest is everything the engine sends to the external
// completion service. The engine never depends on the provider's behavior
// beyond "text or error".
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  float64
}

// CompletionClient is the narrow seam around the LLM so learning and
// insight logic stay unit-testable without network access.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
