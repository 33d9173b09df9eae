package domain

// Chunk is a bounded span of a document's text with provenance metadata.
// Chunks are immutable once created and owned by the vector index after ingestion.
type Chunk struct {
	// ID is unique within an index generation.
	ID string

	// Text is the chunk content, an exact substring of the extracted document.
	Text string

	// SourcePath is the path of the document the chunk came from.
	SourcePath string

	// Filename is the base name of SourcePath, used for attribution.
	Filename string

	// SequenceIndex is the position of the chunk within its document, from 0.
	// It preserves document order for diagnostics and is not used for ranking.
	SequenceIndex int

	// Offset is the rune offset of the chunk start within the document text.
	Offset int
}

// ScoredChunk pairs a chunk with its similarity to a query vector.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
