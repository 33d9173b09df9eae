package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions against the indexed documents while keeping
// per-conversation context.
type ChatService interface {
	// Chat answers question within the named conversation. A blank id means
	// the default conversation. Backend and index problems are reported in the
	// answer text; only invalid input is returned as an error.
	Chat(ctx context.Context, question, conversationID string) (*domain.ChatResponse, error)

	// Reset clears the conversation's turns and any model-side memory.
	Reset(ctx context.Context, conversationID string) error

	// History returns every stored turn of the conversation, oldest first.
	History(ctx context.Context, conversationID string) ([]domain.Turn, error)
}
