package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Retriever turns a question into ranked evidence from the vector index.
type Retriever struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever over index, embedding queries with embedder.
func NewRetriever(index driven.VectorIndex, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
	}
}

// Retrieve returns up to k chunks ranked by similarity to query. The query is
// embedded on every call. No score threshold is applied.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	if r.index == nil || !r.index.Ready() {
		return nil, domain.ErrIndexNotReady
	}
	if r.embedder == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, domain.ErrEmbeddingUnavailable)
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrBackendUnavailable, err)
	}

	hits, err := r.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.RetrievedChunk, len(hits))
	for i, hit := range hits {
		results[i] = domain.NewRetrievedChunk(hit)
	}
	logger.Debug("Retrieved %d chunks (k=%d)", len(results), k)
	return results, nil
}
