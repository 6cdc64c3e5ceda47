package llm

import (
	"context"
	"fmt"
	"log/slog"

	"genius/internal/domain"
	"genius/internal/domain/models/llm"
	"genius/internal/domain/services"
	domainllm "genius/internal/domain/services/llm"
	"genius/internal/tools"
)

// ToolSource looks up generation tools by ID.
type ToolSource interface {
	Get(id string) (*tools.Tool, error)
}

// CompletionService runs one generation tool per call: free-tier check,
// system prompt, provider call, usage increment.
type CompletionService struct {
	tools     ToolSource
	providers *ProviderRegistry
	usage     services.UsageService
	logger    *slog.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(
	toolSource ToolSource,
	providers *ProviderRegistry,
	usage services.UsageService,
	logger *slog.Logger,
) services.CompletionService {
	return &CompletionService{
		tools:     toolSource,
		providers: providers,
		usage:     usage,
		logger:    logger,
	}
}

// EnsureConfigured resolves the tool's provider, surfacing a missing key.
func (s *CompletionService) EnsureConfigured(toolID string) error {
	tool, err := s.tools.Get(toolID)
	if err != nil {
		return err
	}
	_, _, err = s.providers.GetProviderForModel(tool.Model)
	return err
}

// Complete returns the first choice for the caller's messages.
func (s *CompletionService) Complete(ctx context.Context, req *services.CompletionRequest) (*llm.ChatMessage, error) {
	tool, err := s.tools.Get(req.ToolID)
	if err != nil {
		return nil, err
	}

	provider, info, err := s.providers.GetProviderForModel(tool.Model)
	if err != nil {
		return nil, err
	}

	freeTrial, err := s.usage.CheckAPILimit(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("check api limit: %w", err)
	}
	isPro, err := s.usage.IsPro(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if !freeTrial && !isPro {
		return nil, &domain.QuotaExceededError{Message: domain.MsgFreeTrialExpired}
	}

	messages := make([]llm.ChatMessage, 0, len(req.Messages)+1)
	if tool.SystemPrompt != "" {
		messages = append(messages, llm.NewTextMessage(llm.RoleSystem, tool.SystemPrompt))
	}
	messages = append(messages, req.Messages...)

	resp, err := provider.GenerateResponse(ctx, &domainllm.GenerateRequest{
		Messages:  messages,
		Model:     info.Model,
		MaxTokens: tool.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", provider.Name(), err)
	}

	s.logger.Debug("completion generated",
		"tool", tool.ID,
		"user_id", req.UserID,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"stop_reason", resp.StopReason,
	)

	if !isPro {
		// A failed increment does not fail the request.
		if err := s.usage.IncreaseAPILimit(ctx, req.UserID); err != nil {
			s.logger.Error("failed to increase api limit", "user_id", req.UserID, "error", err)
		}
	}

	reply := resp.Message
	return &reply, nil
}
