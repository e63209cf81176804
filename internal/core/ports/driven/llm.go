package driven

import "context"

// LLMService provides the completion capability of the Language Model Provider.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete produces a completion for a system and user prompt pair.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest configures a single completion call.
type CompletionRequest struct {
	// System is the system prompt. May be empty.
	System string

	// User is the user prompt.
	User string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
