package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// stateEntry is the row model for persisted client state.
type stateEntry struct {
	Scope     string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64"`
	Value     []byte
	UpdatedAt time.Time
}

func (stateEntry) TableName() string { return "state_entries" }

type gormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) a sqlite-backed store at path. Use ":memory:"
// for an ephemeral database.
func OpenSQLite(path string) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&stateEntry{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var entry stateEntry
	err := s.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s/%s: %w", scope, key, err)
	}
	return entry.Value, nil
}

func (s *gormStore) Put(ctx context.Context, scope, key string, value []byte) error {
	entry := stateEntry{Scope: scope, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, scope, key string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		Delete(&stateEntry{}).Error
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *gormStore) DeleteScope(ctx context.Context, scope string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ?", scope).
		Delete(&stateEntry{}).Error
	if err != nil {
		return fmt.Errorf("store: delete scope %s: %w", scope, err)
	}
	return nil
}
