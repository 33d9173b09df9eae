// Package llm holds behaviour shared by the LLM provider adapters.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultSummarisePrompt is the fallback prompt when no PromptStore is configured.
const DefaultSummarisePrompt = `Summarise the following content in %d characters or less.
Be concise and capture the key points.

Content:
%s

Summary:`

// GenerateFunc is the Generate method of a provider adapter.
type GenerateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error)

// Prompts resolves prompt templates from an optional store.
// Adapters embed it to satisfy driven.PromptStoreAware.
type Prompts struct {
	store driven.PromptStore
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, built-in default prompts are used.
func (p *Prompts) SetPromptStore(store driven.PromptStore) {
	p.store = store
}

// Load returns the named prompt, falling back when the store is missing or fails.
func (p *Prompts) Load(name, fallback string) string {
	if p.store == nil {
		return fallback
	}
	prompt, err := p.store.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// Summarise condenses content with the summarise prompt and the given generator.
func (p *Prompts) Summarise(ctx context.Context, generate GenerateFunc, content string, maxLength int) (string, error) {
	template := p.Load(driven.PromptSummarise, DefaultSummarisePrompt)
	prompt := fmt.Sprintf(template, maxLength, content)

	result, err := generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   max(maxLength/4, 16), // roughly 4 chars per token
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(result), nil
}
