package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// LMStudioClient talks to an LM Studio server through its
// OpenAI-compatible chat completions endpoint. A circuit breaker sits
// in front of the server so a dead endpoint fails fast instead of
// stalling the pipelines on every queued task.
type LMStudioClient struct {
	model   string
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
}

// NewLMStudioClient creates a client for the given server host
// (host:port, no scheme) and model name. An empty host is an error so
// callers can detect a missing server configuration before starting
// any workers.
func NewLMStudioClient(host, model string) (*LMStudioClient, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("LM Studio server host not configured")
	}

	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = fmt.Sprintf("http://%s/v1", host)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "lmstudio",
		MaxRequests: 1,
		Timeout:     15 * time.Second,
	})

	return &LMStudioClient{
		model:   model,
		client:  openai.NewClientWithConfig(cfg),
		breaker: breaker,
	}, nil
}

// Respond sends a single-message chat completion request and returns
// the raw assistant content.
func (c *LMStudioClient) Respond(ctx context.Context, prompt string, cfg Config) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: float32(cfg.Temperature),
	}
	if cfg.MaxTokens > 0 {
		req.MaxTokens = cfg.MaxTokens
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response returned")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}
