package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/models"
	"gemchat/backend/internal/storage"
)

// Messages — журнал сообщений, ключ — id чата. Сообщения неизменяемы
// после создания; отображение сохраняется в BlobStore целиком при каждом
// добавлении.
type Messages struct {
	mu     sync.RWMutex
	byRoom map[string][]models.Message
	blobs  storage.BlobStore
	clk    clock.Clock
}

func NewMessages(blobs storage.BlobStore, clk clock.Clock) *Messages {
	return &Messages{
		byRoom: make(map[string][]models.Message),
		blobs:  blobs,
		clk:    clk,
	}
}

// Load заменяет состояние содержимым хранилища
func (m *Messages) Load(ctx context.Context) error {
	var byRoom map[string][]models.Message
	found, err := m.blobs.Load(ctx, storage.KeyMessages, &byRoom)
	if err != nil {
		return err
	}
	if !found || byRoom == nil {
		return nil
	}

	m.mu.Lock()
	m.byRoom = byRoom
	m.mu.Unlock()
	return nil
}

// Append создаёт сообщение и дописывает его в историю чата.
// Хотя бы одна из частей text/image должна быть непустой.
func (m *Messages) Append(ctx context.Context, roomID string, sender models.Sender, text, image string) (models.Message, error) {
	content, err := models.NewContent(text, image)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:         uuid.New().String(),
		ChatroomID: roomID,
		Sender:     sender,
		Content:    content,
		Timestamp:  m.clk.Now().UnixMilli(),
	}

	m.mu.Lock()
	m.byRoom[roomID] = append(m.byRoom[roomID], msg)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.blobs.Save(ctx, storage.KeyMessages, snapshot); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// SendUser дописывает пользовательское сообщение
func (m *Messages) SendUser(ctx context.Context, roomID, text, image string) (models.Message, error) {
	return m.Append(ctx, roomID, models.SenderUser, text, image)
}

// ReplyAI дописывает ответ модели. Задержку имитирует вызывающий:
// сам журнал синхронный и о таймерах не знает.
func (m *Messages) ReplyAI(ctx context.Context, roomID, text string) (models.Message, error) {
	return m.Append(ctx, roomID, models.SenderAI, text, "")
}

// Windowed возвращает последние pageSize*(pageCount+1) сообщений чата,
// старые впереди. Окно растёт на страницу с каждым инкрементом pageCount —
// так работает подгрузка истории. Неизвестный чат даёт пустой срез.
func (m *Messages) Windowed(roomID string, pageCount, pageSize int) []models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.byRoom[roomID]
	n := pageSize * (pageCount + 1)
	if n <= 0 {
		return nil
	}
	if n > len(all) {
		n = len(all)
	}

	out := make([]models.Message, n)
	copy(out, all[len(all)-n:])
	return out
}

// Count возвращает длину истории чата
func (m *Messages) Count(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byRoom[roomID])
}

// DeleteRoom выбрасывает историю чата. Вызывается при удалении чата,
// чтобы не копить осиротевшие записи.
func (m *Messages) DeleteRoom(ctx context.Context, roomID string) error {
	m.mu.Lock()
	delete(m.byRoom, roomID)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	return m.blobs.Save(ctx, storage.KeyMessages, snapshot)
}

func (m *Messages) snapshotLocked() map[string][]models.Message {
	snapshot := make(map[string][]models.Message, len(m.byRoom))
	for roomID, msgs := range m.byRoom {
		snapshot[roomID] = append([]models.Message(nil), msgs...)
	}
	return snapshot
}
