package db

import (
	"fmt"

	"github.com/zulandar/haulyard/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model Haulyard stores.
func AllModels() []interface{} {
	return []interface{}{
		&models.ArchiveRecord{},
		&models.LiveNotice{},
		&models.CompanyPage{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
