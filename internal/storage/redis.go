package storage

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

// RedisStore хранит блобы строками Redis без истечения
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, blobKey(key), data, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, blobKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("discarding corrupt blob %q: %v", key, err)
		return false, nil
	}
	return true, nil
}

// blobKey возвращает ключ слота в Redis
func blobKey(key string) string {
	return "blob:" + key
}
