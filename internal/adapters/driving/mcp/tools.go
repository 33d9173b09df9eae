package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Question       string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to continue (default \"default\")"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Answer         string             `json:"answer"`
	Sources        []domain.SourceRef `json:"sources"`
	ConversationID string             `json:"conversation_id"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find document chunks"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Filename string  `json:"filename"`
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path of the file to add to the index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Path      string `json:"path"`
	Chunks    int    `json:"chunks"`
	IndexSize int    `json:"index_size"`
}

// RebuildInput is the (empty) input schema for the rebuild tool.
type RebuildInput struct{}

// RebuildOutput is the output schema for the rebuild tool.
type RebuildOutput struct {
	Files   int      `json:"files"`
	Chunks  int      `json:"chunks"`
	Skipped []string `json:"skipped,omitempty"`
}

// ConversationInput selects a conversation for reset and history.
type ConversationInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation id (default \"default\")"`
}

// ResetOutput is the output schema for the reset tool.
type ResetOutput struct {
	ConversationID string `json:"conversation_id"`
	Cleared        bool   `json:"cleared"`
}

// HistoryOutput is the output schema for the history tool.
type HistoryOutput struct {
	ConversationID string        `json:"conversation_id"`
	Turns          []domain.Turn `json:"turns"`
}

// CompareInput is the input schema for the compare tool.
// Either both paths or both texts must be set.
type CompareInput struct {
	PathA string `json:"path_a,omitempty" jsonschema:"first document"`
	PathB string `json:"path_b,omitempty" jsonschema:"second document"`
	TextA string `json:"text_a,omitempty" jsonschema:"first text, used when no paths are given"`
	TextB string `json:"text_b,omitempty" jsonschema:"second text, used when no paths are given"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Answer a question from the indexed documents, citing sources. Remembers earlier turns of the conversation.",
	}, s.handleChat)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the document chunks most similar to a query, without generating an answer",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Add a document file to the index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rebuild",
		Description: "Rebuild the index from every file in the documents directory",
	}, s.handleRebuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Clear the history of a conversation",
	}, s.handleReset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "List the stored turns of a conversation",
	}, s.handleHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare two documents, or two pieces of text, and summarise the differences",
	}, s.handleCompare)
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	resp, err := s.ports.Chat.Chat(ctx, input.Question, input.ConversationID)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	sources := resp.Sources
	if sources == nil {
		sources = []domain.SourceRef{}
	}
	return nil, ChatOutput{
		Answer:         resp.Answer,
		Sources:        sources,
		ConversationID: resp.ConversationID,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.ports.SearchK
	}
	if limit <= 0 {
		limit = domain.DefaultSearchK
	}

	results, err := s.ports.Search.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Filename: results[i].Filename,
			Source:   results[i].SourcePath,
			Score:    results[i].Score,
			Content:  results[i].Text,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, fmt.Errorf("ingest: %w", ErrToolUnavailable)
	}
	res, err := s.ports.Ingest.Ingest(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{Path: res.Path, Chunks: res.Chunks, IndexSize: res.IndexSize}, nil
}

// handleRebuild handles the rebuild tool invocation.
func (s *Server) handleRebuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RebuildInput,
) (*mcp.CallToolResult, RebuildOutput, error) {
	if s.ports.Ingest == nil {
		return nil, RebuildOutput{}, fmt.Errorf("rebuild: %w", ErrToolUnavailable)
	}
	res, err := s.ports.Ingest.Rebuild(ctx)
	if err != nil {
		return nil, RebuildOutput{}, err
	}
	return nil, RebuildOutput{Files: res.Files, Chunks: res.Chunks, Skipped: res.Skipped}, nil
}

// handleReset handles the reset tool invocation.
func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConversationInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	id := domain.NormaliseConversationID(input.ConversationID)
	if err := s.ports.Chat.Reset(ctx, id); err != nil {
		return nil, ResetOutput{}, err
	}
	return nil, ResetOutput{ConversationID: id, Cleared: true}, nil
}

// handleHistory handles the history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConversationInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	id := domain.NormaliseConversationID(input.ConversationID)
	turns, err := s.ports.Chat.History(ctx, id)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	return nil, HistoryOutput{ConversationID: id, Turns: turns}, nil
}

// handleCompare handles the compare tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, domain.DiffResult, error) {
	if s.ports.Compare == nil {
		return nil, domain.DiffResult{}, fmt.Errorf("compare: %w", ErrToolUnavailable)
	}
	var (
		res *domain.DiffResult
		err error
	)
	switch {
	case input.PathA != "" && input.PathB != "":
		res, err = s.ports.Compare.CompareFiles(ctx, input.PathA, input.PathB)
	case input.PathA == "" && input.PathB == "" && (input.TextA != "" || input.TextB != ""):
		res, err = s.ports.Compare.CompareText(ctx, input.TextA, input.TextB)
	default:
		return nil, domain.DiffResult{}, fmt.Errorf("compare: give path_a and path_b, or text_a and text_b: %w",
			domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, domain.DiffResult{}, err
	}
	out := *res
	if out.SampleAdded == nil {
		out.SampleAdded = []string{}
	}
	if out.SampleRemoved == nil {
		out.SampleRemoved = []string{}
	}
	return nil, out, nil
}
