package models

import (
	"time"
)

// DeviceEntry is one key of a visitor's device storage: the server-side
// stand-in for browser local storage.
type DeviceEntry struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	SessionID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_device_session_key" json:"session_id"`
	Key       string    `gorm:"column:storage_key;size:64;not null;uniqueIndex:idx_device_session_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DeviceEntry) TableName() string {
	return "device_storage"
}
