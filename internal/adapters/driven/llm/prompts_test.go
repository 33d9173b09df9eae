package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

type stubStore struct {
	prompts map[string]string
}

func (s *stubStore) Load(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", errors.New("unknown prompt")
	}
	return p, nil
}

func (s *stubStore) Reload() {}

func TestPrompts_Load(t *testing.T) {
	var p Prompts
	assert.Equal(t, "fallback", p.Load("x", "fallback"))

	p.SetPromptStore(&stubStore{prompts: map[string]string{"x": "custom"}})
	assert.Equal(t, "custom", p.Load("x", "fallback"))
	assert.Equal(t, "fallback", p.Load("missing", "fallback"))
}

func TestPrompts_Summarise(t *testing.T) {
	var p Prompts
	p.SetPromptStore(&stubStore{prompts: map[string]string{
		driven.PromptSummarise: "len=%d text=%s",
	}})

	var gotPrompt string
	var gotOpts driven.GenerateOptions
	gen := func(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
		gotPrompt = prompt
		gotOpts = opts
		return "  short  ", nil
	}

	out, err := p.Summarise(context.Background(), gen, "long text", 400)

	require.NoError(t, err)
	assert.Equal(t, "short", out)
	assert.Equal(t, "len=400 text=long text", gotPrompt)
	assert.Equal(t, 100, gotOpts.MaxTokens)
}

func TestPrompts_Summarise_Error(t *testing.T) {
	var p Prompts
	gen := func(context.Context, string, driven.GenerateOptions) (string, error) {
		return "", errors.New("down")
	}

	_, err := p.Summarise(context.Background(), gen, "x", 10)
	assert.ErrorContains(t, err, "summarise")
}
