package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/services"
	"gemchat/backend/internal/storage"
	"gemchat/backend/internal/store"
)

// recordingBroadcaster captures everything pushed to subscribers.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []models.Message
}

func (b *recordingBroadcaster) BroadcastMessage(msg models.Message) {
	b.mu.Lock()
	b.messages = append(b.messages, msg)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) all() []models.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Message(nil), b.messages...)
}

func newResponder(t *testing.T) (*services.Responder, *store.Messages, *recordingBroadcaster, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake()
	ledger := store.NewMessages(storage.NewMemoryStore(), clk)
	hub := &recordingBroadcaster{}
	return services.NewResponder(ledger, hub, clk), ledger, hub, clk
}

func TestResponder_RepliesAfterDelay(t *testing.T) {
	responder, ledger, hub, clk := newResponder(t)

	responder.Schedule("room1")

	clk.Advance(1100 * time.Millisecond)
	assert.Zero(t, ledger.Count("room1"), "no reply before the minimum delay")

	clk.Advance(1100 * time.Millisecond)

	window := ledger.Windowed("room1", 0, 20)
	require.Len(t, window, 1)
	assert.Equal(t, models.SenderAI, window[0].Sender)
	assert.Equal(t, services.ReplyText, window[0].Content.Text)

	pushed := hub.all()
	require.Len(t, pushed, 1)
	assert.Equal(t, window[0].ID, pushed[0].ID)
}

func TestResponder_RescheduleReplacesPendingReply(t *testing.T) {
	responder, ledger, _, clk := newResponder(t)

	responder.Schedule("room1")
	clk.Advance(600 * time.Millisecond)
	responder.Schedule("room1")

	clk.Advance(3 * time.Second)

	assert.Equal(t, 1, ledger.Count("room1"), "one pending reply per room")
}

func TestResponder_CancelDropsPendingReply(t *testing.T) {
	responder, ledger, hub, clk := newResponder(t)

	responder.Schedule("room1")
	responder.Cancel("room1")

	clk.Advance(3 * time.Second)

	assert.Zero(t, ledger.Count("room1"))
	assert.Empty(t, hub.all())
}

func TestResponder_StopDropsEverything(t *testing.T) {
	responder, ledger, _, clk := newResponder(t)

	responder.Schedule("room1")
	responder.Schedule("room2")
	responder.Stop()

	clk.Advance(3 * time.Second)

	assert.Zero(t, ledger.Count("room1"))
	assert.Zero(t, ledger.Count("room2"))

	// Scheduling after Stop is ignored rather than panicking.
	responder.Schedule("room3")
	clk.Advance(3 * time.Second)
	assert.Zero(t, ledger.Count("room3"))
}
