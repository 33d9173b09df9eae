package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a bad
	// chunker configuration, an empty query or a non-positive k.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates an index was asked to build from no chunks.
	ErrEmptyInput = errors.New("empty input")

	// ErrIndexNotReady indicates a search before any index was built or loaded.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrCorruptIndex indicates persisted index state that cannot be trusted.
	// Callers must rebuild rather than search the data.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrBackendUnavailable indicates an embedding or language-model call failed.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrExtractionFailure indicates a source file could not be reduced to text.
	ErrExtractionFailure = errors.New("extraction failure")

	// ErrUnsupportedFileType indicates no extractor is registered for a file extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
