package services

import (
	"context"

	"genius/internal/domain/models/llm"
)

// CompletionRequest is one generation call for a tool.
type CompletionRequest struct {
	ToolID   string
	UserID   string
	Messages []llm.ChatMessage
}

// CompletionService runs a generation tool end to end (quota, system prompt, provider).
type CompletionService interface {
	// EnsureConfigured fails with domain.ErrProviderNotConfigured when the
	// tool's provider has no credential.
	EnsureConfigured(toolID string) error

	// Complete returns the provider's first choice message.
	Complete(ctx context.Context, req *CompletionRequest) (*llm.ChatMessage, error)
}
