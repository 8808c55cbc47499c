package llm

import "context"

// Config holds the per-request generation settings.
type Config struct {
	Temperature float64
	// MaxTokens limits the response length; 0 means omit the limit
	// and let the server apply its default.
	MaxTokens int
}

// Client is a synchronous text generation service. Respond blocks for
// the full duration of the call; the pipelines rely on that as their
// admission control, so implementations must not queue internally.
type Client interface {
	Respond(ctx context.Context, prompt string, cfg Config) (string, error)
}
