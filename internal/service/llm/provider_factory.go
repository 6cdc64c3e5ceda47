package llm

import (
	"context"
	"fmt"

	"genius/internal/config"
	"genius/internal/domain"
	domainllm "genius/internal/domain/services/llm"
	"genius/internal/service/llm/providers/anthropic"
	"genius/internal/service/llm/providers/gemini"
	"genius/internal/service/llm/providers/lorem"
	"genius/internal/service/llm/providers/openai"
)

// ProviderFactory creates LLM provider instances from config
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name.
// A provider whose API key is unset yields *domain.ProviderNotConfiguredError.
//
// Supported providers:
//   - "openai" - GPT models via the OpenAI API
//   - "anthropic" - Claude models via the Anthropic API
//   - "gemini" - Gemini models via the Gemini API
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case ProviderOpenAI:
		if f.config.OpenAIAPIKey == "" {
			return nil, notConfigured(providerName)
		}
		return openai.NewProvider(f.config.OpenAIAPIKey)

	case ProviderAnthropic:
		if f.config.AnthropicAPIKey == "" {
			return nil, notConfigured(providerName)
		}
		return anthropic.NewProvider(f.config.AnthropicAPIKey)

	case ProviderGemini:
		if f.config.GeminiAPIKey == "" {
			return nil, notConfigured(providerName)
		}
		return gemini.NewProvider(context.Background(), f.config.GeminiAPIKey)

	case ProviderLorem:
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func notConfigured(provider string) error {
	return &domain.ProviderNotConfiguredError{Provider: DisplayName(provider)}
}
