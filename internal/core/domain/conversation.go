package domain

import (
	"strings"
	"time"
)

// DefaultConversationID is used when a caller does not name a conversation.
const DefaultConversationID = "default"

// Role identifies who produced a turn.
type Role string

// Available roles.
const (
	// RoleUser marks a question from the user.
	RoleUser Role = "user"

	// RoleAssistant marks a generated answer.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is a single message in a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`

	// Sources lists the citations attached to an assistant turn.
	Sources []SourceRef `json:"sources,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the ordered turn log for one conversation id.
type Conversation struct {
	ID    string
	Turns []Turn
}

// NormaliseConversationID maps a blank id to DefaultConversationID.
func NormaliseConversationID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultConversationID
	}
	return id
}

// HistoryWindow is the bounded part of a conversation placed in a prompt.
type HistoryWindow struct {
	// Summary condenses turns that fell out of the window. Empty unless
	// rolling summaries are enabled.
	Summary string

	// Turns are the most recent turns, oldest first.
	Turns []Turn
}
