package llm

import (
	"fmt"
	"sync"

	domainllm "genius/internal/domain/services/llm"
)

// ProviderSource builds provider instances by name. ProviderFactory is the
// production implementation.
type ProviderSource interface {
	GetProvider(providerName string) (domainllm.LLMProvider, error)
}

// ProviderRegistry routes model requests to provider instances and caches them.
// Failed constructions are not cached.
type ProviderRegistry struct {
	factory ProviderSource
	cache   map[string]domainllm.LLMProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory ProviderSource) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.LLMProvider),
	}
}

// GetProvider returns the provider for the given provider name.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.LLMProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring write lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	instance, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = instance
	return instance, nil
}

// GetProviderForModel parses a model string and returns its provider along
// with the provider-side model name.
func (r *ProviderRegistry) GetProviderForModel(model string) (domainllm.LLMProvider, *ModelInfo, error) {
	info, err := ParseModel(model)
	if err != nil {
		return nil, nil, err
	}
	provider, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, nil, err
	}
	return provider, info, nil
}

// Validate checks if the factory is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
