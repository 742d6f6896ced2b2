package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitcoach/business/coaching"

	"github.com/pobyzaarif/goshortcute"
)

type CompletionConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	BasicAuthUsername string
	BasicAuthPassword string
	Timeout           time.Duration
}

// CompletionRepository talks to an OpenAI-compatible chat completions
// endpoint. It implements the engine's narrow CompletionClient seam; any
// response-shape surprise is reported as an error and the engine proceeds
// rule-based only.
type CompletionRepository struct {
	cfg    CompletionConfig
	client *http.Client
}

var _ coaching.CompletionClient = (*CompletionRepository)(nil)

func NewCompletionRepository(cfg CompletionConfig) *CompletionRepository {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &CompletionRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r *CompletionRepository) Complete(ctx context.Context, req coaching.CompletionRequest) (string, error) {
	if r.cfg.BaseURL == "" {
		return "", fmt.Errorf("%w: no completion endpoint configured", coaching.ErrLLMUnavailable)
	}

	payload := completionPayload{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserMessage},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json payload: %w", err)
	}

	url := r.cfg.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return "", err
	}

	httpReq.Header.Add("Content-Type", "application/json")
	if r.cfg.BasicAuthUsername != "" {
		// self-hosted completion proxies often sit behind basic auth
		buildBasicAuth := goshortcute.StringtoBase64Encode(r.cfg.BasicAuthUsername + ":" + r.cfg.BasicAuthPassword)
		httpReq.Header.Add("Authorization", "Basic "+buildBasicAuth)
	} else {
		httpReq.Header.Add("Authorization", "Bearer "+r.cfg.APIKey)
	}

	res, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", coaching.ErrLLMUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("%w: status %d: %s", coaching.ErrLLMUnavailable, res.StatusCode, string(bodyBytes))
	}

	var parsed completionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", coaching.ErrLLMUnavailable, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", coaching.ErrLLMUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}
