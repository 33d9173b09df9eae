package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API, or any OpenAI-compatible server such as vLLM.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the built-in hashing embedder. It needs no server
	// and is only valid for embeddings.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud or compatible)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLocal:
		return "Built-in hashing embedder"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector length for providers that allow choosing it.
	Dimensions int

	// CacheSize is the number of document embeddings kept in memory.
	// Zero uses DefaultEmbedCacheSize, negative disables the cache.
	CacheSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the generated answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// MemoryBackend selects where conversation turns are stored.
type MemoryBackend string

// Available memory backends.
const (
	// MemoryBackendMemory keeps turns for the process lifetime only.
	MemoryBackendMemory MemoryBackend = "memory"

	// MemoryBackendSQLite persists turns in a SQLite database.
	MemoryBackendSQLite MemoryBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b MemoryBackend) IsValid() bool {
	return b == MemoryBackendMemory || b == MemoryBackendSQLite
}

// MemorySettings bounds the conversation window placed in prompts.
type MemorySettings struct {
	// Backend selects the conversation store.
	Backend MemoryBackend

	// MaxTurns is the most turns included in a prompt window.
	MaxTurns int

	// MaxTokens additionally bounds the window by token count, 0 disables it.
	MaxTokens int

	// SummariseEvicted keeps a rolling LLM summary of turns that fell out of the window.
	SummariseEvicted bool
}

// Default engine settings.
const (
	DefaultRetrievalK      = 4
	DefaultSearchK         = 5
	DefaultMaxTurns        = 10
	DefaultLLMTimeout      = 60 * time.Second
	DefaultIngestWorkers   = 4
	DefaultLLMMaxTokens    = 2048
	DefaultLLMTemperature  = 0.7
	DefaultEmbedCacheSize  = 1024
	DefaultDocumentsFolder = "documents"
)

// Default provider settings.
const (
	DefaultEmbeddingProvider = AIProviderLocal
	DefaultLLMProvider       = AIProviderOllama
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
)

// DefaultEmbeddingModels returns the default embedding model per provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "hashing-v1",
	}
}

// DefaultLLMModels returns the default LLM model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// PathSettings locates the documents directory and persisted state.
type PathSettings struct {
	// Documents is the directory rebuilt into the index.
	Documents string

	// Index is the persisted vector index file.
	Index string

	// Data holds the conversation database.
	Data string
}

// ChunkerSettings configures document splitting.
type ChunkerSettings struct {
	ChunkSize    int
	ChunkOverlap int
}

// RetrievalSettings configures how many chunks are retrieved.
type RetrievalSettings struct {
	// K is the number of chunks used as chat evidence.
	K int

	// SearchK is the default result count for search.
	SearchK int
}

// IngestSettings configures ingestion throughput.
type IngestSettings struct {
	// Workers bounds parallel extraction during a rebuild.
	Workers int

	// EmbedRatePerSecond limits embedding batches per second, 0 is unlimited.
	EmbedRatePerSecond float64
}

// AppSettings aggregates all user-configurable settings.
type AppSettings struct {
	Paths     PathSettings
	Chunker   ChunkerSettings
	Retrieval RetrievalSettings
	Memory    MemorySettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Ingest    IngestSettings
}

// DefaultAppSettings returns settings that work offline except for the LLM.
// Paths are left empty and resolved against the home directory by callers.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			K:       DefaultRetrievalK,
			SearchK: DefaultSearchK,
		},
		Memory: MemorySettings{
			Backend:  MemoryBackendMemory,
			MaxTurns: DefaultMaxTurns,
		},
		Embedding: EmbeddingSettings{
			Provider:  DefaultEmbeddingProvider,
			Model:     DefaultEmbeddingModels()[DefaultEmbeddingProvider],
			CacheSize: DefaultEmbedCacheSize,
		},
		LLM: LLMSettings{
			Provider:    DefaultLLMProvider,
			Model:       DefaultLLMModels()[DefaultLLMProvider],
			Timeout:     DefaultLLMTimeout,
			Temperature: DefaultLLMTemperature,
			MaxTokens:   DefaultLLMMaxTokens,
		},
		Ingest: IngestSettings{
			Workers: DefaultIngestWorkers,
		},
	}
}
