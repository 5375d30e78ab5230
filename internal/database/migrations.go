package database

import (
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.FamilyLink{},
		&models.School{},
		&models.Coach{},
		&models.Interaction{},
		&models.Offer{},
		&models.Suggestion{},
		&models.Notification{},
	)
}

// SeedData is a no-op placeholder kept for start-up symmetry; all rows are
// created through the API. It remains the hook for future reference data.
func SeedData(db *gorm.DB) error {
	return nil
}
