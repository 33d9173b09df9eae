package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyPathDocuments      = "paths.documents"
	keyPathIndex          = "paths.index"
	keyPathData           = "paths.data"
	keyChunkSize          = "chunker.chunk_size"
	keyChunkOverlap       = "chunker.chunk_overlap"
	keyRetrievalK         = "retrieval.k"
	keySearchK            = "retrieval.search_k"
	keyMemoryBackend      = "memory.backend"
	keyMemoryMaxTurns     = "memory.max_turns"
	keyMemoryMaxTokens    = "memory.max_tokens"
	keyMemorySummarise    = "memory.summarise_evicted"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedDimensions    = "embedding.dimensions"
	keyEmbedCacheSize     = "embedding.cache_size"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMTimeout         = "llm.timeout_seconds"
	keyLLMTemperature     = "llm.temperature"
	keyLLMMaxTokens       = "llm.max_tokens"
	keyIngestWorkers      = "ingest.workers"
	keyIngestEmbedRate    = "ingest.embed_rate_per_second"
	envOpenAIAPIKey       = "OPENAI_API_KEY"
	envAnthropicAPIKey    = "ANTHROPIC_API_KEY"
	defaultIndexFile      = "index.db"
	defaultDataFolder     = "data"
	defaultOllamaEndpoint = "http://localhost:11434"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	homeDir     string
}

// NewSettingsService creates a new settings service. Relative default paths
// for the index and data directory are resolved against homeDir.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator, homeDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		homeDir:     homeDir,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			Documents: s.getString(keyPathDocuments, domain.DefaultDocumentsFolder),
			Index:     s.getString(keyPathIndex, filepath.Join(s.homeDir, defaultIndexFile)),
			Data:      s.getString(keyPathData, filepath.Join(s.homeDir, defaultDataFolder)),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
			ChunkOverlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunker.ChunkOverlap),
		},
		Retrieval: domain.RetrievalSettings{
			K:       s.getInt(keyRetrievalK, defaults.Retrieval.K),
			SearchK: s.getInt(keySearchK, defaults.Retrieval.SearchK),
		},
		Memory: domain.MemorySettings{
			Backend:          s.getBackend(defaults.Memory.Backend),
			MaxTurns:         s.getInt(keyMemoryMaxTurns, defaults.Memory.MaxTurns),
			MaxTokens:        s.configStore.GetInt(keyMemoryMaxTokens),
			SummariseEvicted: s.getBool(keyMemorySummarise, defaults.Memory.SummariseEvicted),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.apiKey(keyEmbedAPIKey, embedProvider),
			Dimensions: s.configStore.GetInt(keyEmbedDimensions),
			CacheSize:  s.getIntAllowZero(keyEmbedCacheSize, defaults.Embedding.CacheSize),
		},
		LLM: domain.LLMSettings{
			Provider:    llmProvider,
			Model:       s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:      s.apiKey(keyLLMAPIKey, llmProvider),
			Timeout:     s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Ingest: domain.IngestSettings{
			Workers:            s.getInt(keyIngestWorkers, defaults.Ingest.Workers),
			EmbedRatePerSecond: s.configStore.GetFloat(keyIngestEmbedRate),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyPathDocuments, settings.Paths.Documents},
		{keyPathIndex, settings.Paths.Index},
		{keyPathData, settings.Paths.Data},
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyChunkOverlap, settings.Chunker.ChunkOverlap},
		{keyRetrievalK, settings.Retrieval.K},
		{keySearchK, settings.Retrieval.SearchK},
		{keyMemoryBackend, string(settings.Memory.Backend)},
		{keyMemoryMaxTurns, settings.Memory.MaxTurns},
		{keyMemoryMaxTokens, settings.Memory.MaxTokens},
		{keyMemorySummarise, settings.Memory.SummariseEvicted},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedCacheSize, settings.Embedding.CacheSize},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyIngestWorkers, settings.Ingest.Workers},
		{keyIngestEmbedRate, settings.Ingest.EmbedRatePerSecond},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys that came from the environment stay out of the file
	if err := s.saveAPIKey(keyEmbedAPIKey, settings.Embedding.Provider, settings.Embedding.APIKey); err != nil {
		return err
	}
	if err := s.saveAPIKey(keyLLMAPIKey, settings.LLM.Provider, settings.LLM.APIKey); err != nil {
		return err
	}

	return s.configStore.Save()
}

func (s *SettingsService) saveAPIKey(key string, provider domain.AIProvider, value string) error {
	if value == "" || value == envAPIKey(provider) {
		return nil
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider == domain.AIProviderAnthropic {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = defaultBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || provider == domain.AIProviderLocal {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = defaultBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// defaultBaseURL keeps a custom endpoint for Ollama and OpenAI-compatible
// servers and fills in the local Ollama address when none is set.
func defaultBaseURL(provider domain.AIProvider, current string) string {
	switch provider {
	case domain.AIProviderOllama:
		if current == "" {
			return defaultOllamaEndpoint
		}
		return current
	case domain.AIProviderOpenAI:
		if current == defaultOllamaEndpoint {
			return ""
		}
		return current
	default:
		return ""
	}
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunker.ChunkSize <= 0 || settings.Chunker.ChunkOverlap < 0 ||
		settings.Chunker.ChunkOverlap >= settings.Chunker.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, %d)",
			domain.ErrInvalidInput, settings.Chunker.ChunkOverlap, settings.Chunker.ChunkSize)
	}
	if settings.Retrieval.K < 1 || settings.Retrieval.SearchK < 1 {
		return fmt.Errorf("%w: retrieval k must be at least 1", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if raw := s.configStore.GetString(keyMemoryBackend); raw != "" && !domain.MemoryBackend(raw).IsValid() {
		return fmt.Errorf("%w: unknown memory backend %q", domain.ErrInvalidInput, raw)
	}
	return nil
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicit 0 as a value rather than "unset".
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.MemoryBackend) domain.MemoryBackend {
	backend := domain.MemoryBackend(s.configStore.GetString(keyMemoryBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// apiKey reads the stored key and falls back to the provider's environment variable.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return envAPIKey(provider)
}

func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicAPIKey)
	default:
		return ""
	}
}
