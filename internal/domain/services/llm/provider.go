package llm

import (
	"context"

	"genius/internal/domain/models/llm"
)

// LLMProvider defines the interface that all LLM providers must implement.
// Requests are single-shot: one call, one answer.
type LLMProvider interface {
	// GenerateResponse sends the conversation and returns the provider's first choice.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "openai", "anthropic")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Messages is the full conversation, system messages included, in order.
	Messages []llm.ChatMessage

	// Model is the provider-side model identifier (e.g., "gpt-3.5-turbo")
	Model string

	// MaxTokens caps the answer length. Zero means provider default.
	MaxTokens int
}

// GenerateResponse contains the LLM provider's response.
type GenerateResponse struct {
	// Message is the first completion choice reduced to {role, content}.
	// Other fields of the provider's choice message (refusal, tool_calls,
	// annotations, audio) are not carried; the routes never request tools.
	Message llm.ChatMessage

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "stop", "end_turn")
	StopReason string
}
