package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/store"
)

// ReplyText — фиксированный текст имитированного ответа модели
const ReplyText = "This is a simulated Gemini AI reply."

const (
	replyMinDelay = 1200 * time.Millisecond
	replyMaxDelay = 2200 * time.Millisecond
)

// Broadcaster доставляет созданное сообщение подписчикам чата
type Broadcaster interface {
	BroadcastMessage(msg models.Message)
}

// Responder дописывает имитированный ответ ИИ спустя случайную задержку.
// На чат держится не больше одного отложенного ответа; удаление чата или
// остановка сервиса снимает таймеры, чтобы они не трогали снесённое
// состояние.
type Responder struct {
	ledger *store.Messages
	hub    Broadcaster
	clk    clock.Clock

	mu      sync.Mutex
	rnd     *rand.Rand
	pending map[string]clock.Timer
	stopped bool
}

func NewResponder(ledger *store.Messages, hub Broadcaster, clk clock.Clock) *Responder {
	return &Responder{
		ledger:  ledger,
		hub:     hub,
		clk:     clk,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		pending: make(map[string]clock.Timer),
	}
}

// Schedule ставит отложенный ответ в чате roomID, заменяя уже ожидающий
func (r *Responder) Schedule(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	if t, ok := r.pending[roomID]; ok {
		t.Stop()
	}
	delay := replyMinDelay + time.Duration(r.rnd.Int63n(int64(replyMaxDelay-replyMinDelay)))
	r.pending[roomID] = r.clk.AfterFunc(delay, func() { r.reply(roomID) })
}

func (r *Responder) reply(roomID string) {
	r.mu.Lock()
	delete(r.pending, roomID)
	r.mu.Unlock()

	msg, err := r.ledger.ReplyAI(context.Background(), roomID, ReplyText)
	if err != nil {
		log.Printf("ai reply for room %s failed: %v", roomID, err)
		return
	}
	if r.hub != nil {
		r.hub.BroadcastMessage(msg)
	}
}

// Cancel снимает отложенный ответ чата, если он есть
func (r *Responder) Cancel(roomID string) {
	r.mu.Lock()
	if t, ok := r.pending[roomID]; ok {
		t.Stop()
		delete(r.pending, roomID)
	}
	r.mu.Unlock()
}

// Stop снимает все отложенные ответы; новые не принимаются
func (r *Responder) Stop() {
	r.mu.Lock()
	r.stopped = true
	for roomID, t := range r.pending {
		t.Stop()
		delete(r.pending, roomID)
	}
	r.mu.Unlock()
}
