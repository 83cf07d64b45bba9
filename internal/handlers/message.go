package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gemchat/backend/internal/handlers/dto"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/pagination"
	"gemchat/backend/internal/services"
	"gemchat/backend/internal/store"
	"gemchat/backend/internal/websocket"
)

// defaultPageSize — страница истории при подгрузке старых сообщений
const defaultPageSize = 20

type MessageHandler struct {
	rooms     *store.Chatrooms
	ledger    *store.Messages
	responder *services.Responder
	hub       *websocket.Hub
}

func NewMessageHandler(rooms *store.Chatrooms, ledger *store.Messages, responder *services.Responder, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{rooms: rooms, ledger: ledger, responder: responder, hub: hub}
}

// GetMessages отдаёт окно истории чата: последние page_size*(page+1)
// сообщений, старые впереди. Увеличение page подгружает историю глубже.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	roomID := c.Param("id")
	if _, ok := h.rooms.Get(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	page := queryInt(c, "page", 0)
	pageSize := queryInt(c, "page_size", defaultPageSize)

	total := h.ledger.Count(roomID)
	messages := h.ledger.Windowed(roomID, page, pageSize)
	c.JSON(http.StatusOK, gin.H{
		"messages":   messages,
		"total":      total,
		"page_count": pagination.PageCount(total, pageSize),
	})
}

// SendMessage дописывает пользовательское сообщение и ставит отложенный
// ответ модели. Само сообщение уходит подписчикам чата сразу.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	roomID := c.Param("id")
	if _, ok := h.rooms.Get(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.ledger.SendUser(c.Request.Context(), roomID, req.Text, req.Image)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	h.hub.BroadcastMessage(msg)
	h.responder.Schedule(roomID)

	c.JSON(http.StatusCreated, msg)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
