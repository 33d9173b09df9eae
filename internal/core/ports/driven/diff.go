package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// DiffEngine compares two texts line by line.
type DiffEngine interface {
	// Compare computes similarity and line changes between a and b.
	Compare(a, b string) domain.DiffResult

	// Unified renders a unified diff between a and b with the given file labels.
	Unified(a, b, fromName, toName string) (string, error)
}
