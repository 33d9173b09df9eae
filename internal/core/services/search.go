package services

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService exposes raw semantic search over the index.
type SearchService struct {
	retriever *Retriever
}

// NewSearchService creates a new search service.
func NewSearchService(retriever *Retriever) *SearchService {
	return &SearchService{retriever: retriever}
}

// Search returns up to k chunks ranked by similarity to query.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	logger.Section("Search")
	logger.Debug("Query: %q, k=%d", query, k)

	results, err := s.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}
	return results, nil
}
