package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var errBackendDown = errors.New("backend down")

// mockLLM records chat calls and replies with a fixed answer.
type mockLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	delay    time.Duration
	calls    [][]driven.ChatMessage
	prompts  []string
	genReply string
	genErr   error
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.genReply, nil
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) Summarise(_ context.Context, content string, _ int) (string, error) {
	return content, nil
}

func (m *mockLLM) ModelName() string         { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

func (m *mockLLM) lastCall() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// failingEmbedder fails every request.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, errBackendDown }
func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errBackendDown
}
func (failingEmbedder) Dimensions() int            { return 8 }
func (failingEmbedder) ModelName() string          { return "failing" }
func (failingEmbedder) Ping(context.Context) error { return errBackendDown }
func (failingEmbedder) Close() error               { return nil }

// mockPromptStore serves fixed templates.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("%w: prompt %s", domain.ErrNotFound, name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// wordCounter counts whitespace separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
func (wordCounter) Encoding() string      { return "words" }

// mockValidator records which settings were validated.
type mockValidator struct {
	embedding *domain.EmbeddingSettings
	llm       *domain.LLMSettings
	err       error
}

func (m *mockValidator) ValidateEmbedding(_ context.Context, s *domain.EmbeddingSettings) error {
	m.embedding = s
	return m.err
}

func (m *mockValidator) ValidateLLM(_ context.Context, s *domain.LLMSettings) error {
	m.llm = s
	return m.err
}

// failingStore is a conversation store whose writes fail.
type failingStore struct {
	driven.ConversationStore
}

func (failingStore) Append(context.Context, string, ...domain.Turn) error { return errBackendDown }

// countingStore records how many Append calls reach the store.
type countingStore struct {
	driven.ConversationStore
	calls int
}

func (c *countingStore) Append(ctx context.Context, id string, turns ...domain.Turn) error {
	c.calls++
	return c.ConversationStore.Append(ctx, id, turns...)
}

// testChunk creates a chunk attributed to filename.
func testChunk(id, filename, text string) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		Text:       text,
		SourcePath: "/docs/" + filename,
		Filename:   filename,
	}
}
