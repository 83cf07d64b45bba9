package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gemchat/backend/internal/store"
)

func TestSession_SelectAndClear(t *testing.T) {
	session := store.NewSession()

	_, ok := session.Current()
	assert.False(t, ok, "a fresh session has no active room")

	session.Select("room1")
	current, ok := session.Current()
	assert.True(t, ok)
	assert.Equal(t, "room1", current)

	session.Select("room2")
	current, _ = session.Current()
	assert.Equal(t, "room2", current)

	session.Clear()
	_, ok = session.Current()
	assert.False(t, ok)
}

// A session keeps whatever id it was given; a room deleted elsewhere must
// surface as "not found" at lookup time, never as a panic here.
func TestSession_KeepsStaleID(t *testing.T) {
	session := store.NewSession()

	session.Select("deleted-room")

	current, ok := session.Current()
	assert.True(t, ok)
	assert.Equal(t, "deleted-room", current)
}
