package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob — одна строка-слот; значение перезаписывается целиком при каждой мутации
type Blob struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"type:text;not null"`
}

// PostgresStore хранит блобы в Postgres через GORM
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	blob := Blob{Key: key, Value: string(data)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&blob).Error
}

func (s *PostgresStore) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	var blob Blob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(blob.Value), dest); err != nil {
		log.Printf("discarding corrupt blob %q: %v", key, err)
		return false, nil
	}
	return true, nil
}
