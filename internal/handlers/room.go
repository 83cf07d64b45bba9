package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gemchat/backend/internal/handlers/dto"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/services"
	"gemchat/backend/internal/store"
	"gemchat/backend/internal/websocket"
)

type RoomHandler struct {
	rooms     *store.Chatrooms
	ledger    *store.Messages
	responder *services.Responder
	hub       *websocket.Hub
}

func NewRoomHandler(rooms *store.Chatrooms, ledger *store.Messages, responder *services.Responder, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, ledger: ledger, responder: responder, hub: hub}
}

// ListRooms отдаёт чаты, отфильтрованные по параметру search
func (h *RoomHandler) ListRooms(c *gin.Context) {
	h.rooms.SetSearch(c.Query("search"))

	rooms := h.rooms.Filtered()
	out := make([]gin.H, len(rooms))
	for i, room := range rooms {
		out[i] = h.formatRoom(room)
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// CreateRoom создаёт новый чат
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Add(c.Request.Context(), req.Title)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, h.formatRoom(room))
}

// GetRoom отдаёт один чат; устаревший id вырождается в 404
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, ok := h.rooms.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, h.formatRoom(room))
}

// DeleteRoom удаляет чат вместе с историей. Отложенный ответ модели
// снимается до удаления, чтобы он не писал в снесённый чат.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID := c.Param("id")

	if _, ok := h.rooms.Get(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	h.responder.Cancel(roomID)

	if err := h.rooms.Delete(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
		return
	}
	if err := h.ledger.DeleteRoom(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
}

func (h *RoomHandler) formatRoom(room models.Chatroom) gin.H {
	return gin.H{
		"id":            room.ID,
		"title":         room.Title,
		"created_at":    room.CreatedAt,
		"message_count": h.ledger.Count(room.ID),
		"online_count":  h.hub.RoomSubscribers(room.ID),
	}
}
