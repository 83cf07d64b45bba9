package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore держит блобы в памяти. Используется в тестах
// и при запуске без Redis и Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	data, ok := s.blobs[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Битый блоб отбрасываем
		return false, nil
	}
	return true, nil
}

// Put кладёт сырые байты в слот, минуя сериализацию.
// Нужен тестам, проверяющим обработку битых данных.
func (s *MemoryStore) Put(key string, raw []byte) {
	s.mu.Lock()
	s.blobs[key] = raw
	s.mu.Unlock()
}
