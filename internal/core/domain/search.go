package domain

// RetrievedChunk is a ranked piece of evidence returned by the retriever.
type RetrievedChunk struct {
	// ChunkID identifies the chunk inside the index generation it came from.
	ChunkID string `json:"chunk_id"`

	// Filename is the document base name, used to tag evidence in prompts.
	Filename string `json:"filename"`

	// Text is the full chunk text.
	Text string `json:"text"`

	// SourcePath is the document path.
	SourcePath string `json:"source"`

	// Score is the cosine similarity to the query, higher is better.
	Score float64 `json:"score"`
}

// NewRetrievedChunk converts an index hit into retriever output.
func NewRetrievedChunk(hit ScoredChunk) RetrievedChunk {
	return RetrievedChunk{
		ChunkID:    hit.Chunk.ID,
		Filename:   hit.Chunk.Filename,
		Text:       hit.Chunk.Text,
		SourcePath: hit.Chunk.SourcePath,
		Score:      hit.Score,
	}
}

// IndexStatus describes the state of the vector index and its providers.
type IndexStatus struct {
	// Ready is true once an index has been built or loaded.
	Ready bool `json:"ready"`

	// Chunks is the number of chunks held by the index.
	Chunks int `json:"chunks"`

	// Dimensions is the embedding dimension, 0 before the first build.
	Dimensions int `json:"dimensions"`

	// Path is where the index is persisted.
	Path string `json:"path"`

	// DocumentsDir is the directory rebuild reads from.
	DocumentsDir string `json:"documents_dir"`

	// EmbeddingModel names the embedding model in use.
	EmbeddingModel string `json:"embedding_model"`

	// LLMModel names the language model in use, empty when none is configured.
	LLMModel string `json:"llm_model,omitempty"`
}
