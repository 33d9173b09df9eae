package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func TestServer_handleChat(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and sources", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{
			Answer:         "Staff may work remotely two days a week.",
			Sources:        []domain.SourceRef{{Filename: "policy.md", ContentSnippet: "Remote work", Source: "/docs/policy.md"}},
			ConversationID: "team",
		}}
		server := newTestServer(t, &Ports{Chat: chat})

		_, out, err := server.handleChat(ctx, nil, ChatInput{Question: "remote work?", ConversationID: "team"})

		require.NoError(t, err)
		assert.Equal(t, "Staff may work remotely two days a week.", out.Answer)
		assert.Equal(t, "team", out.ConversationID)
		require.Len(t, out.Sources, 1)
		assert.Equal(t, "policy.md", out.Sources[0].Filename)
		assert.Equal(t, "remote work?", chat.lastQuestion)
		assert.Equal(t, "team", chat.lastID)
	})

	t.Run("nil sources become empty list", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{Answer: "No index.", ConversationID: "default"}}
		server := newTestServer(t, &Ports{Chat: chat})

		_, out, err := server.handleChat(ctx, nil, ChatInput{Question: "q"})

		require.NoError(t, err)
		assert.NotNil(t, out.Sources)
		assert.Empty(t, out.Sources)
	})

	t.Run("propagates invalid input", func(t *testing.T) {
		chat := &mockChatService{err: domain.ErrInvalidInput}
		server := newTestServer(t, &Ports{Chat: chat})

		_, _, err := server.handleChat(ctx, nil, ChatInput{Question: " "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		search := &mockSearchService{results: []domain.RetrievedChunk{{
			ChunkID:    "c1",
			Filename:   "handbook.txt",
			Text:       "This is the content",
			SourcePath: "/docs/handbook.txt",
			Score:      0.95,
		}}}
		server := newTestServer(t, &Ports{Search: search})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test", Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "handbook.txt", output.Results[0].Filename)
		assert.Equal(t, "/docs/handbook.txt", output.Results[0].Source)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, "This is the content", output.Results[0].Content)
		assert.Equal(t, 3, search.lastK)
	})

	t.Run("limit falls back to configured default", func(t *testing.T) {
		search := &mockSearchService{}
		server := newTestServer(t, &Ports{Search: search, SearchK: 7})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 7, search.lastK)
	})

	t.Run("limit falls back to built-in default", func(t *testing.T) {
		search := &mockSearchService{}
		server := newTestServer(t, &Ports{Search: search})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSearchK, search.lastK)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server := newTestServer(t, &Ports{Search: search})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleIngestAndRebuild(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without ingest port", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Path: "a.txt"})
		assert.ErrorIs(t, err, ErrToolUnavailable)

		_, _, err = server.handleRebuild(ctx, nil, RebuildInput{})
		assert.ErrorIs(t, err, ErrToolUnavailable)
	})

	t.Run("reports ingest counts", func(t *testing.T) {
		ingest := &mockIngestService{ingest: &driving.IngestResult{Path: "/docs/a.txt", Chunks: 3, IndexSize: 10}}
		server := newTestServer(t, &Ports{Ingest: ingest})

		_, out, err := server.handleIngest(ctx, nil, IngestInput{Path: "a.txt"})

		require.NoError(t, err)
		assert.Equal(t, IngestOutput{Path: "/docs/a.txt", Chunks: 3, IndexSize: 10}, out)
	})

	t.Run("reports rebuild counts", func(t *testing.T) {
		ingest := &mockIngestService{rebuild: &driving.RebuildResult{Files: 2, Chunks: 9, Skipped: []string{"bad.pdf"}}}
		server := newTestServer(t, &Ports{Ingest: ingest})

		_, out, err := server.handleRebuild(ctx, nil, RebuildInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Files)
		assert.Equal(t, 9, out.Chunks)
		assert.Equal(t, []string{"bad.pdf"}, out.Skipped)
	})
}

func TestServer_handleResetAndHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("reset normalises blank id", func(t *testing.T) {
		chat := &mockChatService{}
		server := newTestServer(t, &Ports{Chat: chat})

		_, out, err := server.handleReset(ctx, nil, ConversationInput{})

		require.NoError(t, err)
		assert.True(t, out.Cleared)
		assert.Equal(t, domain.DefaultConversationID, out.ConversationID)
		assert.Equal(t, []string{domain.DefaultConversationID}, chat.resetIDs)
	})

	t.Run("history returns turns", func(t *testing.T) {
		chat := &mockChatService{turns: []domain.Turn{
			{Role: domain.RoleUser, Text: "hi"},
			{Role: domain.RoleAssistant, Text: "hello"},
		}}
		server := newTestServer(t, &Ports{Chat: chat})

		_, out, err := server.handleHistory(ctx, nil, ConversationInput{ConversationID: "c1"})

		require.NoError(t, err)
		assert.Equal(t, "c1", out.ConversationID)
		assert.Len(t, out.Turns, 2)
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, out, err := server.handleHistory(ctx, nil, ConversationInput{ConversationID: "c1"})

		require.NoError(t, err)
		assert.NotNil(t, out.Turns)
		assert.Empty(t, out.Turns)
	})
}

func TestServer_handleCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without compare port", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleCompare(ctx, nil, CompareInput{PathA: "a", PathB: "b"})

		assert.ErrorIs(t, err, ErrToolUnavailable)
	})

	t.Run("returns diff summary", func(t *testing.T) {
		compare := &mockCompareService{result: &domain.DiffResult{
			SimilarityRatio: 0.95,
			AddedLines:      1,
			Verdict:         domain.DiffMinor,
		}}
		server := newTestServer(t, &Ports{Compare: compare})

		_, out, err := server.handleCompare(ctx, nil, CompareInput{PathA: "a", PathB: "b"})

		require.NoError(t, err)
		assert.Equal(t, "files", compare.called)
		assert.Equal(t, domain.DiffMinor, out.Verdict)
		assert.Equal(t, 1, out.AddedLines)
		assert.NotNil(t, out.SampleAdded)
		assert.NotNil(t, out.SampleRemoved)
	})

	t.Run("compares raw text without paths", func(t *testing.T) {
		compare := &mockCompareService{result: &domain.DiffResult{Identical: true, SimilarityRatio: 1}}
		server := newTestServer(t, &Ports{Compare: compare})

		_, out, err := server.handleCompare(ctx, nil, CompareInput{TextA: "same", TextB: "same"})

		require.NoError(t, err)
		assert.Equal(t, "text", compare.called)
		assert.True(t, out.Identical)
	})

	t.Run("rejects a single path", func(t *testing.T) {
		compare := &mockCompareService{}
		server := newTestServer(t, &Ports{Compare: compare})

		_, _, err := server.handleCompare(ctx, nil, CompareInput{PathA: "a", TextB: "b"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, compare.called)
	})

	t.Run("propagates extraction failure", func(t *testing.T) {
		compare := &mockCompareService{err: domain.ErrExtractionFailure}
		server := newTestServer(t, &Ports{Compare: compare})

		_, _, err := server.handleCompare(ctx, nil, CompareInput{PathA: "a", PathB: "b"})

		assert.ErrorIs(t, err, domain.ErrExtractionFailure)
	})
}
