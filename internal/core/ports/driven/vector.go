package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// VectorIndex stores (chunk, embedding) pairs and answers similarity queries.
// Embeddings are computed by the index from chunk text and normalised to unit
// length, so similarity is the inner product.
//
// Readers never observe a partially written index. Build and Add are atomic
// with respect to Search, and Save/Load are never interleaved with Add.
type VectorIndex interface {
	// Build replaces the index contents with the given chunks.
	// Returns domain.ErrEmptyInput if chunks is empty.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Reset replaces the contents with an empty, ready index.
	Reset()

	// Add embeds and appends chunks. Behaves as Build on an empty index.
	// Content-identical chunks are stored again; there is no deduplication.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k chunks ordered by descending similarity,
	// ties broken by insertion order.
	// Returns domain.ErrIndexNotReady before any Build or Load.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Save persists vectors and chunk metadata to path.
	Save(ctx context.Context, path string) error

	// Load restores the index from path. It returns false with a nil error
	// when nothing is persisted there, and domain.ErrCorruptIndex when the
	// file exists but cannot be trusted.
	Load(ctx context.Context, path string) (bool, error)

	// Ready reports whether an index has been built or loaded.
	Ready() bool

	// Len returns the number of stored chunks.
	Len() int

	// Dimensions returns the vector dimension, 0 before the first build.
	Dimensions() int
}
