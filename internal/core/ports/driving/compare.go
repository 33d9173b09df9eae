package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// CompareService compares document versions.
type CompareService interface {
	// CompareFiles extracts both files and compares their text, including a unified diff.
	CompareFiles(ctx context.Context, pathA, pathB string) (*domain.DiffResult, error)

	// CompareText compares two texts directly.
	CompareText(ctx context.Context, a, b string) (*domain.DiffResult, error)
}
