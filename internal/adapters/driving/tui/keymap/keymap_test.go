package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"quit", km.Quit.Keys(), "ctrl+c"},
		{"back", km.Back.Keys(), "esc"},
		{"send", km.Send.Keys(), "enter"},
		{"reset", km.ResetConversation.Keys(), "ctrl+r"},
		{"scroll up", km.ScrollUp.Keys(), "pgup"},
		{"scroll down", km.ScrollDown.Keys(), "pgdown"},
		{"up arrow", km.Up.Keys(), "up"},
		{"up vim", km.Up.Keys(), "k"},
		{"down vim", km.Down.Keys(), "j"},
		{"new search", km.NewSearch.Keys(), "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.keys, tt.want)
		})
	}
}

func TestKeyMap_HelpSets(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ChatHelp(), 4)
	assert.Len(t, km.SearchHelp(), 3)
	assert.Len(t, km.ResultsHelp(), 4)
	assert.Equal(t, "ctrl+r", km.ChatHelp()[1].Help().Key)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+r", km.ResetConversation))
	assert.True(t, Matches("j", km.Down))
	assert.False(t, Matches("x", km.Down))
	assert.False(t, Matches("", km.Send))
}
