package repository

import (
	"venuehub/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables owned by the repositories in this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Venue{},
		&domain.Hall{},
		&domain.HallBlockedDate{},
		&BookingModel{},
		&domain.Message{},
	)
}
