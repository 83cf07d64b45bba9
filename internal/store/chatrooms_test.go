package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemchat/backend/internal/models"
	"gemchat/backend/internal/storage"
	"gemchat/backend/internal/store"
)

func TestChatrooms_AddValidatesTitle(t *testing.T) {
	rooms := store.NewChatrooms(storage.NewMemoryStore())
	ctx := context.Background()

	for _, title := range []string{"", "a", strings.Repeat("x", 33), "   "} {
		_, err := rooms.Add(ctx, title)
		assert.Error(t, err, "title %q must be rejected", title)
		assert.True(t, models.IsValidation(err), "title %q must fail with a validation error", title)
	}

	room, err := rooms.Add(ctx, "Valid Room")
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Valid Room", room.Title)

	filtered := rooms.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, room.ID, filtered[0].ID, "a created room appears in Filtered immediately")
}

func TestChatrooms_AddTrimsTitle(t *testing.T) {
	rooms := store.NewChatrooms(storage.NewMemoryStore())

	room, err := rooms.Add(context.Background(), "  Trip Ideas  ")
	require.NoError(t, err)
	assert.Equal(t, "Trip Ideas", room.Title)
}

func TestChatrooms_FilteredEmptyQueryKeepsInsertionOrder(t *testing.T) {
	rooms := store.NewChatrooms(storage.NewMemoryStore())
	ctx := context.Background()

	titles := []string{"Work", "Travel Plans", "Recipes"}
	for _, title := range titles {
		_, err := rooms.Add(ctx, title)
		require.NoError(t, err)
	}

	rooms.SetSearch("")
	filtered := rooms.Filtered()

	require.Len(t, filtered, len(titles))
	for i, room := range filtered {
		assert.Equal(t, titles[i], room.Title)
	}
}

func TestChatrooms_FilteredIsCaseInsensitiveSubstring(t *testing.T) {
	rooms := store.NewChatrooms(storage.NewMemoryStore())
	ctx := context.Background()

	for _, title := range []string{"Travel Plans", "Work Chat", "travel log"} {
		_, err := rooms.Add(ctx, title)
		require.NoError(t, err)
	}

	rooms.SetSearch("TRAVEL")
	filtered := rooms.Filtered()

	require.Len(t, filtered, 2)
	assert.Equal(t, "Travel Plans", filtered[0].Title)
	assert.Equal(t, "travel log", filtered[1].Title)
}

func TestChatrooms_DeleteMissingIsNoop(t *testing.T) {
	rooms := store.NewChatrooms(storage.NewMemoryStore())
	ctx := context.Background()

	_, err := rooms.Add(ctx, "Keep Me")
	require.NoError(t, err)

	require.NoError(t, rooms.Delete(ctx, "no-such-id"))
	assert.Len(t, rooms.Filtered(), 1)
}

func TestChatrooms_PersistRoundtrip(t *testing.T) {
	blobs := storage.NewMemoryStore()
	ctx := context.Background()

	first := store.NewChatrooms(blobs)
	created, err := first.Add(ctx, "Persisted Room")
	require.NoError(t, err)
	_, err = first.Add(ctx, "Another Room")
	require.NoError(t, err)
	require.NoError(t, first.Delete(ctx, created.ID))

	second := store.NewChatrooms(blobs)
	require.NoError(t, second.Load(ctx))

	filtered := second.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "Another Room", filtered[0].Title)
}

func TestChatrooms_LoadCorruptBlobTreatedAsAbsent(t *testing.T) {
	blobs := storage.NewMemoryStore()
	blobs.Put(storage.KeyChatrooms, []byte("{definitely not json"))

	rooms := store.NewChatrooms(blobs)

	require.NoError(t, rooms.Load(context.Background()))
	assert.Empty(t, rooms.Filtered())
}
