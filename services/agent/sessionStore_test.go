package agent

import (
	"context"
	"testing"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	session := &models.ConversationSession{ID: "sess-1", AgentName: "Ava"}
	session.AppendTurn(models.Turn{Role: models.RoleAssistant, Content: "Hi!"})
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Ava", got.AgentName)
	require.Len(t, got.Turns, 1)

	// Mutating the returned copy must not leak into the store.
	got.AppendTurn(models.Turn{Role: models.RoleUser, Content: "hello"})
	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, again.Turns, 1)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreMissing(t *testing.T) {
	store := NewMemorySessionStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
