package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"crmchat/app/service/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetUnknownKeyReturnsEmptyState(t *testing.T) {
	store := NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Shutdown() })

	state, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)

	assert.Empty(t, state.Contacts)
	assert.Zero(t, state.MessageCount)
	assert.Equal(t, conversation.PhaseIdle, state.Phase())
}

func TestMemoryStore_SetGetRoundtrip(t *testing.T) {
	store := NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Shutdown() })

	state := conversation.NewState()
	state.Upsert(conversation.ContactRef{DisplayName: "Sarah Williams", Phone: "5551234"}, 1)
	state.MessageCount = 3

	require.NoError(t, store.Set(context.Background(), "s1", state))

	loaded, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	require.Len(t, loaded.Contacts, 1)
	assert.Equal(t, "Sarah Williams", loaded.Contacts[0].DisplayName)
	assert.Equal(t, 3, loaded.MessageCount)
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	store := NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Shutdown() })

	state := conversation.NewState()
	state.Upsert(conversation.ContactRef{DisplayName: "Sarah Williams"}, 1)
	require.NoError(t, store.Set(context.Background(), "s1", state))

	loaded, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	// Mutating the loaded copy must not leak into the store.
	loaded.Contacts[0].Phone = "5550000"
	loaded.MessageCount = 99

	reloaded, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	assert.Empty(t, reloaded.Contacts[0].Phone)
	assert.Zero(t, reloaded.MessageCount)
}

func TestMemoryStore_DeleteAndKeys(t *testing.T) {
	store := NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Shutdown() })

	require.NoError(t, store.Set(context.Background(), "b", conversation.NewState()))
	require.NoError(t, store.Set(context.Background(), "a", conversation.NewState()))

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, store.Delete(context.Background(), "a"))

	keys, err = store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	state, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, state.Contacts)
}

func TestMemoryStore_EvictsIdleSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Shutdown() })

	require.NoError(t, store.Set(context.Background(), "stale", conversation.NewState()))
	require.NoError(t, store.Set(context.Background(), "fresh", conversation.NewState()))

	store.mu.Lock()
	entry := store.items["stale"]
	entry.updatedAt = time.Now().Add(-2 * time.Minute)
	store.items["stale"] = entry
	store.mu.Unlock()

	store.evictIdle()

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.jsonl")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	state := conversation.NewState()
	state.Upsert(conversation.ContactRef{DisplayName: "John Smith"}, 1)

	require.NoError(t, store.Set(context.Background(), "s1", state))

	loaded, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Contacts, 1)
	assert.Equal(t, "John Smith", loaded.Contacts[0].DisplayName)

	// A new instance over the same file sees the data.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	loaded, err = reopened.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Contacts, 1)
}

func TestFileStore_UnknownKeyReturnsEmptyState(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.jsonl"))
	require.NoError(t, err)

	state, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, state.Contacts)
}

func TestFileStore_DeleteAndKeys(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.jsonl"))
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "b", conversation.NewState()))
	require.NoError(t, store.Set(context.Background(), "a", conversation.NewState()))

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, store.Delete(context.Background(), "b"))

	keys, err = store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}
