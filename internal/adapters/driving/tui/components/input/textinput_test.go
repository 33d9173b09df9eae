package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		prompt *Prompt
		label  string
		limit  int
	}{
		{"search", NewSearchInput(nil), "Search: ", 256},
		{"question", NewQuestionInput(nil), "Ask: ", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.prompt)
			assert.NotNil(t, tt.prompt.styles)
			assert.True(t, tt.prompt.Focused())
			assert.Equal(t, "", tt.prompt.Value())
			assert.Equal(t, tt.limit, tt.prompt.textinput.CharLimit)
			assert.Contains(t, tt.prompt.View(), tt.label)
		})
	}
}

func TestPrompt_Init(t *testing.T) {
	assert.NotNil(t, NewQuestionInput(nil).Init())
}

func TestPrompt_TypingUpdatesValue(t *testing.T) {
	p := NewQuestionInput(nil)

	for _, r := range "hi" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "hi", p.Value())
}

func TestPrompt_FocusBlurReset(t *testing.T) {
	p := NewSearchInput(nil)
	p.SetValue("leave policy")

	p.Blur()
	assert.False(t, p.Focused())
	p.Focus()
	assert.True(t, p.Focused())

	p.Reset()
	assert.Equal(t, "", p.Value())
}

func TestPrompt_SetWidth(t *testing.T) {
	p := NewSearchInput(nil)

	p.SetWidth(100)
	assert.Equal(t, 100, p.Width())
	assert.Equal(t, 100-len("Search: ")-6, p.textinput.Width)

	p.SetWidth(10)
	assert.Equal(t, 20, p.textinput.Width)
}
