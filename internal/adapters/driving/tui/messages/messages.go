// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AnswerReceived carries a chat answer back to the model.
type AnswerReceived struct {
	Response *domain.ChatResponse
	Err      error
}

// HistoryLoaded carries the stored turns of the active conversation.
type HistoryLoaded struct {
	Turns []domain.Turn
	Err   error
}

// ConversationReset signals the active conversation was cleared.
type ConversationReset struct {
	Err error
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.RetrievedChunk
	Err     error
}

// StatusLoaded carries the index status shown in the menu and search headers.
type StatusLoaded struct {
	Status domain.IndexStatus
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversation view.
	ViewChat
	// ViewSearch is the search input and results view.
	ViewSearch
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
