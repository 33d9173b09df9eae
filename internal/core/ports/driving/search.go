package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search returns up to k chunks ranked by similarity to query.
	Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}
