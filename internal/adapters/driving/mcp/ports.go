package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions and manages conversation memory.
	Chat driving.ChatService

	// Search provides retrieval without generation.
	Search driving.SearchService

	// Ingest adds documents and rebuilds the index.
	Ingest driving.IngestService

	// Compare diffs two documents.
	Compare driving.CompareService

	// SearchK is the result count used when a search call gives no limit.
	SearchK int
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Ingest and Compare are optional; their tools report ErrToolUnavailable.
	return nil
}
