package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/pageza/foodtrove/internal/models"
)

// RunMigrations creates or updates the storefront tables
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running auto-migration on %s", db.Dialector.Name())
	if err := db.AutoMigrate(&models.DeviceEntry{}, &models.Order{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
