package database

import (
	"itad_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Request{},
		&models.Quote{},
		&models.QuoteLineItem{},
		&models.Job{},
		&models.TimelineEvent{},
		&models.Notification{},
	)
}
