package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	response *domain.ChatResponse
	turns    []domain.Turn
	err      error

	lastQuestion string
	lastID       string
	resetIDs     []string
}

func (m *mockChatService) Chat(_ context.Context, question, id string) (*domain.ChatResponse, error) {
	m.lastQuestion = question
	m.lastID = id
	return m.response, m.err
}

func (m *mockChatService) Reset(_ context.Context, id string) error {
	m.resetIDs = append(m.resetIDs, id)
	return m.err
}

func (m *mockChatService) History(_ context.Context, id string) ([]domain.Turn, error) {
	m.lastID = id
	return m.turns, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.RetrievedChunk
	err     error
	lastK   int
}

func (m *mockSearchService) Search(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	return m.results, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	ingest  *driving.IngestResult
	rebuild *driving.RebuildResult
	status  domain.IndexStatus
	err     error
}

func (m *mockIngestService) Open(_ context.Context) (bool, error) {
	return m.status.Ready, m.err
}

func (m *mockIngestService) Ingest(_ context.Context, _ string) (*driving.IngestResult, error) {
	return m.ingest, m.err
}

func (m *mockIngestService) Rebuild(_ context.Context) (*driving.RebuildResult, error) {
	return m.rebuild, m.err
}

func (m *mockIngestService) Status(_ context.Context) domain.IndexStatus {
	return m.status
}

// mockCompareService is a mock implementation of driving.CompareService.
type mockCompareService struct {
	result *domain.DiffResult
	err    error
	called string
}

func (m *mockCompareService) CompareFiles(_ context.Context, _, _ string) (*domain.DiffResult, error) {
	m.called = "files"
	return m.result, m.err
}

func (m *mockCompareService) CompareText(_ context.Context, _, _ string) (*domain.DiffResult, error) {
	m.called = "text"
	return m.result, m.err
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Chat == nil {
		ports.Chat = &mockChatService{}
	}
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
