// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions within a conversation.
	Chat driving.ChatService

	// Search provides search capabilities.
	Search driving.SearchService

	// Ingest reports index status for the headers. Optional.
	Ingest driving.IngestService

	// SearchK is the number of results the search view asks for.
	SearchK int

	// ConversationID names the conversation the chat view is bound to.
	ConversationID string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, search driving.SearchService) *Ports {
	return &Ports{
		Chat:           chat,
		Search:         search,
		SearchK:        domain.DefaultSearchK,
		ConversationID: domain.DefaultConversationID,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
