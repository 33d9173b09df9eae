// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded span of document text, the unit of indexing
//   - Conversation and Turn: The dialogue log for one conversation id
//   - RetrievedChunk and SourceRef: Ranked evidence and its citation form
//   - ChatResponse: The answer returned by the answer pipeline
//   - DiffResult: The outcome of comparing two texts
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
