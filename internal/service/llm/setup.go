package llm

import (
	"fmt"
	"log/slog"

	"genius/internal/config"
	"genius/internal/domain/services"
)

// SetupProviders initializes the provider factory and registry for routing.
// Returns a configured ProviderRegistry or an error if setup fails.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	// Missing keys are reported per request, not at startup
	for _, p := range []struct {
		name, key, models string
	}{
		{ProviderOpenAI, cfg.OpenAIAPIKey, "gpt-*, o1-*, o3-*"},
		{ProviderAnthropic, cfg.AnthropicAPIKey, "claude-*"},
		{ProviderGemini, cfg.GeminiAPIKey, "gemini-*"},
	} {
		if p.key != "" {
			logger.Info("provider available", "name", p.name, "models", p.models)
		} else {
			logger.Warn("provider not configured", "name", p.name)
		}
	}
	logger.Info("provider available", "name", ProviderLorem, "models", "lorem-*")

	return registry, nil
}

// SetupCompletion wires the completion service used by the tool routes.
func SetupCompletion(
	cfg *config.Config,
	toolSource ToolSource,
	usage services.UsageService,
	logger *slog.Logger,
) (services.CompletionService, error) {
	registry, err := SetupProviders(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewCompletionService(toolSource, registry, usage, logger), nil
}
