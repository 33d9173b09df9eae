package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// summaryMaxTokens caps a rolling summary generation.
const summaryMaxTokens = 256

// MemoryService keeps per-conversation dialogue and derives the bounded
// window placed in prompts.
//
// Append and Window expect the caller to hold the conversation lock from
// Lock so a whole chat request is serialised per id. Reset and History take
// care of their own locking.
type MemoryService struct {
	store    driven.ConversationStore
	settings domain.MemorySettings
	locks    *keyLock

	counter driven.TokenCounter
	llm     driven.LLMService
	prompts driven.PromptStore

	mu        sync.Mutex
	summaries map[string]rollingSummary
	now       func() time.Time
}

// rollingSummary condenses the first folded turns of a conversation.
type rollingSummary struct {
	text   string
	folded int
}

// NewMemoryService creates a memory service over store.
// A non-positive MaxTurns uses domain.DefaultMaxTurns.
func NewMemoryService(store driven.ConversationStore, settings domain.MemorySettings) *MemoryService {
	if settings.MaxTurns <= 0 {
		settings.MaxTurns = domain.DefaultMaxTurns
	}
	return &MemoryService{
		store:     store,
		settings:  settings,
		locks:     newKeyLock(),
		summaries: make(map[string]rollingSummary),
		now:       time.Now,
	}
}

// SetTokenCounter enables the MaxTokens budget.
func (m *MemoryService) SetTokenCounter(counter driven.TokenCounter) {
	m.counter = counter
}

// SetSummariser provides the model used for rolling summaries of evicted
// turns. Summaries are only produced when SummariseEvicted is set.
func (m *MemoryService) SetSummariser(llm driven.LLMService, prompts driven.PromptStore) {
	m.llm = llm
	m.prompts = prompts
}

// Lock acquires the conversation lock and returns its release func.
// Different conversations never contend.
func (m *MemoryService) Lock(conversationID string) (unlock func()) {
	return m.locks.Lock(domain.NormaliseConversationID(conversationID))
}

// Append adds turns to the conversation in order, creating it if absent.
// The turns are stored together or not at all.
func (m *MemoryService) Append(ctx context.Context, conversationID string, turns ...domain.Turn) error {
	id := domain.NormaliseConversationID(conversationID)
	stamped := make([]domain.Turn, len(turns))
	for n, turn := range turns {
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = m.now()
		}
		stamped[n] = turn
	}
	if err := m.store.Append(ctx, id, stamped...); err != nil {
		return fmt.Errorf("append %d turns: %w", len(stamped), err)
	}
	return nil
}

// Window returns the most recent turns that fit the budget, oldest first.
// maxTurns overrides the configured turn budget when positive. The token
// budget applies on top when a counter is set. Older turns are evicted first.
func (m *MemoryService) Window(ctx context.Context, conversationID string, maxTurns int) (domain.HistoryWindow, error) {
	id := domain.NormaliseConversationID(conversationID)
	if maxTurns <= 0 {
		maxTurns = m.settings.MaxTurns
	}

	turns, err := m.store.Turns(ctx, id)
	if err != nil {
		return domain.HistoryWindow{}, fmt.Errorf("load conversation: %w", err)
	}

	start := 0
	if len(turns) > maxTurns {
		start = len(turns) - maxTurns
	}
	if m.settings.MaxTokens > 0 && m.counter != nil {
		total := 0
		for i := len(turns) - 1; i >= start; i-- {
			total += m.counter.Count(turns[i].Text)
			if total > m.settings.MaxTokens {
				start = i + 1
				break
			}
		}
	}

	window := domain.HistoryWindow{Turns: turns[start:]}
	if m.settings.SummariseEvicted && m.llm != nil {
		window.Summary = m.fold(ctx, id, turns[:start])
	}
	return window, nil
}

// fold extends the rolling summary with evicted turns it has not seen yet.
// A failed generation keeps the previous summary and retries next time.
func (m *MemoryService) fold(ctx context.Context, id string, evicted []domain.Turn) string {
	m.mu.Lock()
	current := m.summaries[id]
	m.mu.Unlock()

	if current.folded >= len(evicted) {
		return current.text
	}

	template := defaultHistorySummaryPrompt
	if m.prompts != nil {
		if p, err := m.prompts.Load(driven.PromptHistorySummary); err == nil {
			template = p
		}
	}

	prompt := fmt.Sprintf(template, current.text, formatTurns(evicted[current.folded:]))
	text, err := m.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Could not summarise evicted turns of %s: %v", id, err)
		return current.text
	}

	next := rollingSummary{text: strings.TrimSpace(text), folded: len(evicted)}
	m.mu.Lock()
	m.summaries[id] = next
	m.mu.Unlock()
	logger.Debug("Folded %d turns into summary for %s", len(evicted)-current.folded, id)
	return next.text
}

// History returns every stored turn, oldest first.
func (m *MemoryService) History(ctx context.Context, conversationID string) ([]domain.Turn, error) {
	turns, err := m.store.Turns(ctx, domain.NormaliseConversationID(conversationID))
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return turns, nil
}

// Reset clears the stored turns and the rolling summary. The id stays
// valid and resetting an empty conversation is a no-op.
func (m *MemoryService) Reset(ctx context.Context, conversationID string) error {
	id := domain.NormaliseConversationID(conversationID)
	unlock := m.locks.Lock(id)
	defer unlock()

	if err := m.store.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}

	m.mu.Lock()
	delete(m.summaries, id)
	m.mu.Unlock()
	return nil
}

// formatTurns renders turns as "User: ..." and "Assistant: ..." lines.
func formatTurns(turns []domain.Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Role == domain.RoleUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

const defaultHistorySummaryPrompt = `Summarise the conversation below, extending the previous summary.

Previous summary:
%s

New lines of conversation:
%s

New summary:`
