package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gemchat/backend/internal/store"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер кадра: в сообщениях бывают картинки base64
	maxMessageSize = 512 * 1024
)

// Client — одно websocket-соединение. Активный чат соединения живёт
// в Session и умирает вместе с ним.
type Client struct {
	ID      uuid.UUID
	Subject string
	Conn    *websocket.Conn
	Send    chan []byte
	Session *store.Session
	Hub     *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, subject string) *Client {
	return &Client{
		ID:      uuid.New(),
		Subject: subject,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: store.NewSession(),
		Hub:     hub,
	}
}

// ReadPump читает события от клиента
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event Event
		err := c.Conn.ReadJSON(&event)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch event.Type {
		case TypePong:
			continue

		case TypeRoomSelect:
			if event.RoomID != "" {
				c.Hub.SelectRoom(c, event.RoomID)
			}

		case TypeRoomClear:
			c.Hub.ClearRoom(c)

		default:
			c.SendError(ErrInvalidEvent.Error())
		}
	}
}

// WritePump отправляет события клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, frame)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendError отправляет клиенту событие с текстом ошибки
func (c *Client) SendError(text string) {
	payload, _ := json.Marshal(map[string]string{"error": text})
	event := Event{Type: "error", Data: payload, Timestamp: time.Now()}

	if frame, err := json.Marshal(event); err == nil {
		select {
		case c.Send <- frame:
		default:
		}
	}
}
