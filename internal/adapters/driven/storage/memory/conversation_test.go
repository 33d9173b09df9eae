package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestConversationStore_AppendAndTurns(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()

	require.NoError(t, store.Append(ctx, "a", domain.Turn{Role: domain.RoleUser, Text: "q1"}))
	require.NoError(t, store.Append(ctx, "a", domain.Turn{Role: domain.RoleAssistant, Text: "a1"}))
	require.NoError(t, store.Append(ctx, "b", domain.Turn{Role: domain.RoleUser, Text: "other"}))

	turns, err := store.Turns(ctx, "a")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "q1", turns[0].Text)
	assert.Equal(t, "a1", turns[1].Text)

	other, err := store.Turns(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestConversationStore_UnknownIDIsEmpty(t *testing.T) {
	turns, err := NewConversationStore().Turns(context.Background(), "nope")

	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConversationStore_InvalidRole(t *testing.T) {
	err := NewConversationStore().Append(context.Background(), "a", domain.Turn{Role: "system"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConversationStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	require.NoError(t, store.Append(ctx, "a", domain.Turn{Role: domain.RoleUser, Text: "q"}))

	require.NoError(t, store.Clear(ctx, "a"))
	require.NoError(t, store.Clear(ctx, "a"))

	turns, err := store.Turns(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConversationStore_TurnsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	require.NoError(t, store.Append(ctx, "a", domain.Turn{Role: domain.RoleUser, Text: "q"}))

	turns, _ := store.Turns(ctx, "a")
	turns[0].Text = "mutated"

	again, _ := store.Turns(ctx, "a")
	assert.Equal(t, "q", again[0].Text)
}

func TestConversationStore_AppendBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()

	err := store.Append(ctx, "a",
		domain.Turn{Role: domain.RoleUser, Text: "q"},
		domain.Turn{Role: "system", Text: "rejected"},
	)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	turns, err := store.Turns(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
