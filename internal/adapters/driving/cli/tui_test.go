package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestTUICmd_Registered(t *testing.T) {
	sub, _, err := rootCmd.Find([]string{"tui"})

	require.NoError(t, err)
	assert.Equal(t, tuiCmd, sub)
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestTUIPorts(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	appSettings.Retrieval.SearchK = 8
	conversationID = "team"

	ports := tuiPorts()

	require.NoError(t, ports.Validate())
	assert.Equal(t, ts.chat, ports.Chat)
	assert.Equal(t, ts.search, ports.Search)
	assert.Equal(t, ts.ingest, ports.Ingest)
	assert.Equal(t, 8, ports.SearchK)
	assert.Equal(t, "team", ports.ConversationID)
}

func TestTUIPorts_MissingChat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	assert.Error(t, tuiPorts().Validate())
	assert.Equal(t, domain.DefaultSearchK, tuiPorts().SearchK)
}
