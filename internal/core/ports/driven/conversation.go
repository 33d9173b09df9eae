package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConversationStore persists conversation turns keyed by conversation id.
// Implementations must be safe for concurrent use. Per-conversation ordering
// of appends is the caller's responsibility (see the memory service).
type ConversationStore interface {
	// Append adds turns to the end of the conversation in order, creating it
	// if absent. Either every turn is stored or none is.
	Append(ctx context.Context, conversationID string, turns ...domain.Turn) error

	// Turns returns all turns oldest-first. Unknown ids return an empty slice.
	Turns(ctx context.Context, conversationID string) ([]domain.Turn, error)

	// Clear removes all turns. The id stays usable for future appends.
	Clear(ctx context.Context, conversationID string) error

	// Close releases resources.
	Close() error
}
