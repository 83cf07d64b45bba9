package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gemchat/backend/internal/models"
	"gemchat/backend/internal/storage"
)

const (
	titleMinLen = 2
	titleMaxLen = 32
)

// Chatrooms — справочник чатов. Состояние живёт в памяти и целиком
// сбрасывается в BlobStore при каждой мутации, как localStorage-слот
// у исходного клиента.
type Chatrooms struct {
	mu     sync.RWMutex
	rooms  []models.Chatroom
	search string
	blobs  storage.BlobStore
}

func NewChatrooms(blobs storage.BlobStore) *Chatrooms {
	return &Chatrooms{blobs: blobs}
}

// Load заменяет состояние содержимым хранилища. Пустой или битый слот
// оставляет список как есть.
func (c *Chatrooms) Load(ctx context.Context) error {
	var rooms []models.Chatroom
	found, err := c.blobs.Load(ctx, storage.KeyChatrooms, &rooms)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	c.mu.Lock()
	c.rooms = rooms
	c.mu.Unlock()
	return nil
}

// SetSearch задаёт строку фильтра
func (c *Chatrooms) SetSearch(q string) {
	c.mu.Lock()
	c.search = q
	c.mu.Unlock()
}

// Filtered возвращает чаты, чей заголовок содержит фильтр без учёта
// регистра, в порядке добавления. Пустой фильтр пропускает всё.
func (c *Chatrooms) Filtered() []models.Chatroom {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(c.search)
	out := make([]models.Chatroom, 0, len(c.rooms))
	for _, room := range c.rooms {
		if strings.Contains(strings.ToLower(room.Title), q) {
			out = append(out, room)
		}
	}
	return out
}

// Get возвращает чат по id
func (c *Chatrooms) Get(id string) (models.Chatroom, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, room := range c.rooms {
		if room.ID == id {
			return room, true
		}
	}
	return models.Chatroom{}, false
}

// Add создаёт чат и сохраняет обновлённый список целиком
func (c *Chatrooms) Add(ctx context.Context, title string) (models.Chatroom, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return models.Chatroom{}, &models.ValidationError{Field: "title", Reason: "chatroom title cannot be empty"}
	case len([]rune(title)) < titleMinLen:
		return models.Chatroom{}, &models.ValidationError{Field: "title", Reason: "title must be at least 2 characters"}
	case len([]rune(title)) > titleMaxLen:
		return models.Chatroom{}, &models.ValidationError{Field: "title", Reason: "title must be at most 32 characters"}
	}

	room := models.Chatroom{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.rooms = append(c.rooms, room)
	snapshot := append([]models.Chatroom(nil), c.rooms...)
	c.mu.Unlock()

	if err := c.blobs.Save(ctx, storage.KeyChatrooms, snapshot); err != nil {
		return models.Chatroom{}, err
	}
	return room, nil
}

// Delete убирает чат по id; отсутствие записи не ошибка
func (c *Chatrooms) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	filtered := c.rooms[:0:0]
	for _, room := range c.rooms {
		if room.ID != id {
			filtered = append(filtered, room)
		}
	}
	c.rooms = filtered
	snapshot := append([]models.Chatroom(nil), c.rooms...)
	c.mu.Unlock()

	return c.blobs.Save(ctx, storage.KeyChatrooms, snapshot)
}
