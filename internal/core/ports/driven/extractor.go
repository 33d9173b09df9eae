package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// TextExtractor reduces one file format to plain text.
type TextExtractor interface {
	// Extensions returns the lower-case file extensions handled, with the dot (".pdf").
	Extensions() []string

	// Extract reads the file at path and returns its text.
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

// FileTextExtractor selects a TextExtractor by file extension.
type FileTextExtractor interface {
	// Supports reports whether a registered extractor handles the path's extension.
	Supports(path string) bool

	// Extract returns the document text. A file that cannot be read yields an
	// empty document and a logged warning rather than an error, so one bad file
	// never aborts a directory ingestion.
	Extract(ctx context.Context, path string) *domain.Document

	// ExtractStrict is Extract for callers that must report failure. Errors wrap
	// domain.ErrExtractionFailure or domain.ErrUnsupportedFileType.
	ExtractStrict(ctx context.Context, path string) (*domain.Document, error)
}
