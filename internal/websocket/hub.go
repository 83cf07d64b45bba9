package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"gemchat/backend/internal/models"
)

// EventType определяет типы событий на сокете
type EventType string

const (
	// Системные
	TypePing EventType = "ping"
	TypePong EventType = "pong"

	// Сообщения чата: и пользовательские, и ответы модели
	TypeMessage EventType = "message"

	// Выбор активного чата
	TypeRoomSelect EventType = "room_select"
	TypeRoomClear  EventType = "room_clear"
)

// Event — кадр протокола на сокете
type Event struct {
	Type      EventType       `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub раздаёт события подписчикам чатов. Клиент получает события чата,
// который он выбрал через room_select.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Подписчики по id чата
	rooms map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и рвёт все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("Client registered: %s (subject: %s)", client.ID, client.Subject)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if roomID, ok := client.Session.Current(); ok {
		h.leaveRoomLocked(client, roomID)
	}
	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (subject: %s)", client.ID, client.Subject)
}

// SelectRoom переключает клиента на чат roomID. Прежняя подписка
// снимается: активный чат у клиента один.
func (h *Hub) SelectRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := client.Session.Current(); ok {
		h.leaveRoomLocked(client, prev)
	}

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[roomID][client.ID] = client
	client.Session.Select(roomID)
}

// ClearRoom сбрасывает выбор чата у клиента
func (h *Hub) ClearRoom(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if roomID, ok := client.Session.Current(); ok {
		h.leaveRoomLocked(client, roomID)
	}
}

func (h *Hub) leaveRoomLocked(client *Client, roomID string) {
	if room, ok := h.rooms[roomID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	client.Session.Clear()
}

// BroadcastMessage рассылает созданное сообщение подписчикам его чата
func (h *Hub) BroadcastMessage(msg models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal message %s: %v", msg.ID, err)
		return
	}

	event := Event{
		Type:      TypeMessage,
		RoomID:    msg.ChatroomID,
		Data:      data,
		Timestamp: time.Now(),
	}
	frame, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendToRoomLocked(msg.ChatroomID, frame)
}

func (h *Hub) sendToRoomLocked(roomID string, frame []byte) {
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			select {
			case client.Send <- frame:
			default:
				log.Printf("Client %s send channel full", client.ID)
			}
		}
	}
}

// RoomSubscribers возвращает число подписчиков чата
func (h *Hub) RoomSubscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := Event{Type: TypePing, Timestamp: time.Now()}
	if frame, err := json.Marshal(event); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- frame:
			default:
			}
		}
	}
}
