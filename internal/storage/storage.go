package storage

import "context"

// Ключи блобов фиксированные — по одному слоту на каждое состояние клиента
const (
	KeyChatrooms = "chatrooms"
	KeyMessages  = "messages"
	KeyAuth      = "auth"
)

// BlobStore хранит JSON-значение целиком под строковым ключом.
// Save перезаписывает слот полностью, частичных обновлений нет.
// Load возвращает (false, nil), если значения нет или оно не декодируется:
// битые данные считаются отсутствующими, а не фатальными.
type BlobStore interface {
	Save(ctx context.Context, key string, value interface{}) error
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
}
