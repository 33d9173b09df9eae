package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SettingsService manages application configuration.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Save persists settings. API keys taken from the environment are not written.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns the built-in defaults.
	GetDefaults() domain.AppSettings

	// SetEmbeddingProvider switches the embedding provider. An empty model
	// selects the provider's default.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider switches the LLM provider. An empty model selects the
	// provider's default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks the stored settings for internal consistency.
	Validate() error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig(ctx context.Context) error
}
