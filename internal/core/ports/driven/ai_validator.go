package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AIConfigValidator validates AI provider configurations by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by settings.
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider described by settings.
	// Returns nil if no LLM is configured.
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}
