package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestService maintains the vector index.
type IngestService interface {
	// Open loads the persisted index. Returns false when none exists yet.
	Open(ctx context.Context) (bool, error)

	// Ingest adds a single file to the index and persists it. Files outside
	// the documents directory are copied into it first so a later Rebuild
	// keeps them.
	Ingest(ctx context.Context, path string) (*IngestResult, error)

	// Rebuild reprocesses the whole documents directory into a fresh index
	// and replaces the old one atomically.
	Rebuild(ctx context.Context) (*RebuildResult, error)

	// Status reports index readiness and provider details.
	Status(ctx context.Context) domain.IndexStatus
}

// IngestResult describes a single-file ingestion.
type IngestResult struct {
	// Path is where the file lives inside the documents directory.
	Path string

	// Chunks is the number of chunks added.
	Chunks int

	// IndexSize is the index size after the ingestion.
	IndexSize int
}

// RebuildResult describes a directory rebuild.
type RebuildResult struct {
	// Files is the number of files that produced chunks.
	Files int

	// Skipped lists files that were unsupported or could not be extracted.
	Skipped []string

	// Chunks is the size of the new index.
	Chunks int
}
