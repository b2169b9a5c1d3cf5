// Package storage keeps each visitor's device storage: small string values
// under fixed keys, scoped by session id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodtrove/internal/models"
)

// Fixed keys used by the storefront.
const (
	KeyCart      = "cart-store"
	KeyWishlist  = "wishlist-store"
	KeyToken     = "token"
	KeyUser      = "user"
	KeyAuthScope = "auth-scope"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a gorm-backed key-value store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, sessionID, key string) (string, error) {
	var entry models.DeviceEntry
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, sessionID, key, value string) error {
	entry := models.DeviceEntry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, sessionID, key string) error {
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, key).
		Delete(&models.DeviceEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key of a session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.DeviceEntry{}).Error
}

// GetJSON decodes the value under key into v. It reports false when the key is missing.
func (s *Store) GetJSON(ctx context.Context, sessionID, key string, v interface{}) (bool, error) {
	raw, err := s.Get(ctx, sessionID, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(ctx context.Context, sessionID, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, sessionID, key, string(raw))
}

// PruneBefore deletes entries not written since cutoff and returns how many were removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.DeviceEntry{})
	return res.RowsAffected, res.Error
}
