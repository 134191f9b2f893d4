package localstore

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sacred-word/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Status classifies the outcome of a Load.
type Status int

const (
	// StatusFound means the key existed and decoded cleanly.
	StatusFound Status = iota
	// StatusAbsent means the key does not exist.
	StatusAbsent
	// StatusCorrupt means the key existed but its value did not decode.
	// Callers treat this the same as absent.
	StatusCorrupt
)

// Store is a JSON key-value store.
type Store interface {
	// Load decodes the value for key into out. A corrupt value is
	// reported via StatusCorrupt, not an error.
	Load(key string, out interface{}) (Status, error)
	// Save encodes value as JSON and writes it under key, replacing
	// any previous value.
	Save(key string, value interface{}) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// GormStore persists values in the options table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(key string, out interface{}) (Status, error) {
	var opt models.OptionModel
	err := s.db.Where("name = ?", key).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusAbsent, nil
	}
	if err != nil {
		return StatusAbsent, err
	}
	if err := json.Unmarshal([]byte(opt.Value), out); err != nil {
		return StatusCorrupt, nil
	}
	return StatusFound, nil
}

func (s *GormStore) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: key, Value: string(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

func (s *GormStore) Remove(key string) error {
	return s.db.Where("name = ?", key).Delete(&models.OptionModel{}).Error
}

// MemStore is an in-memory Store for tests and ephemeral setups.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Load(key string, out interface{}) (Status, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return StatusAbsent, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return StatusCorrupt, nil
	}
	return StatusFound, nil
}

func (s *MemStore) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Put stores a raw string without JSON encoding. Test helper for
// seeding malformed payloads.
func (s *MemStore) Put(key, raw string) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
