package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps conversation turns in process memory.
// Contents are lost when the process exits.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string][]domain.Turn
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string][]domain.Turn),
	}
}

// Append adds turns to the end of the conversation. An invalid turn
// rejects the whole batch.
func (s *ConversationStore) Append(_ context.Context, id string, turns ...domain.Turn) error {
	for _, turn := range turns {
		if !turn.Role.IsValid() {
			return domain.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, turn := range turns {
		turn.Sources = slices.Clone(turn.Sources)
		s.conversations[id] = append(s.conversations[id], turn)
	}
	return nil
}

// Turns returns a copy of all turns, oldest first. Unknown ids are empty.
func (s *ConversationStore) Turns(_ context.Context, id string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conversations[id]), nil
}

// Clear removes every turn of the conversation.
func (s *ConversationStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

// Close releases resources (no-op for memory store).
func (s *ConversationStore) Close() error {
	return nil
}
