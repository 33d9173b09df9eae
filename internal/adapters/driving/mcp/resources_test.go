package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractConversationID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid conversation URI", "docchat://conversations/team-1", "team-1"},
		{"invalid prefix", "file://conversations/team-1", ""},
		{"nested path", "docchat://conversations/a/b", ""},
		{"missing id", "docchat://conversations/", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractConversationID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("not found without ingest port", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleStatusResource(ctx, makeReadResourceRequest("docchat://status"))

		require.Error(t, err)
	})

	t.Run("returns status JSON", func(t *testing.T) {
		ingest := &mockIngestService{status: domain.IndexStatus{
			Ready:          true,
			Chunks:         42,
			EmbeddingModel: "hashing-v1",
		}}
		server := newTestServer(t, &Ports{Ingest: ingest})

		result, err := server.handleStatusResource(ctx, makeReadResourceRequest("docchat://status"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"chunks": 42`)
		assert.Contains(t, result.Contents[0].Text, `"ready": true`)
		assert.Contains(t, result.Contents[0].Text, "hashing-v1")
	})
}

func TestServer_handleConversationResource(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleConversationResource(ctx, makeReadResourceRequest("docchat://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("returns turns", func(t *testing.T) {
		chat := &mockChatService{turns: []domain.Turn{{Role: domain.RoleUser, Text: "What is the leave policy?"}}}
		server := newTestServer(t, &Ports{Chat: chat})

		result, err := server.handleConversationResource(ctx, makeReadResourceRequest("docchat://conversations/hr"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "What is the leave policy?")
		assert.Equal(t, "hr", chat.lastID)
	})

	t.Run("returns error on store failure", func(t *testing.T) {
		chat := &mockChatService{err: errors.New("database error")}
		server := newTestServer(t, &Ports{Chat: chat})

		_, err := server.handleConversationResource(ctx, makeReadResourceRequest("docchat://conversations/hr"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading history")
	})
}
