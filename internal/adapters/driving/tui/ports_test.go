package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	ChatFunc func(ctx context.Context, question, id string) (*domain.ChatResponse, error)
	Turns    []domain.Turn
}

func (m *MockChatService) Chat(ctx context.Context, question, id string) (*domain.ChatResponse, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, question, id)
	}
	return &domain.ChatResponse{Answer: "answer", ConversationID: id, State: domain.StateDone}, nil
}

func (m *MockChatService) Reset(context.Context, string) error {
	m.Turns = nil
	return nil
}

func (m *MockChatService) History(context.Context, string) ([]domain.Turn, error) {
	return m.Turns, nil
}

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, k)
	}
	return nil, nil
}

// Ensure mocks implement the interfaces.
var (
	_ driving.ChatService   = (*MockChatService)(nil)
	_ driving.SearchService = (*MockSearchService)(nil)
)

func TestNewPorts(t *testing.T) {
	chat := &MockChatService{}
	search := &MockSearchService{}

	ports := NewPorts(chat, search)

	require.NotNil(t, ports)
	assert.Equal(t, chat, ports.Chat)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, domain.DefaultSearchK, ports.SearchK)
	assert.Equal(t, domain.DefaultConversationID, ports.ConversationID)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"all set", NewPorts(&MockChatService{}, &MockSearchService{}), nil},
		{"missing chat", &Ports{Search: &MockSearchService{}}, ErrMissingChatService},
		{"missing search", &Ports{Chat: &MockChatService{}}, ErrMissingSearchService},
		{"nil ports", nil, ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
