package database

import (
	"busdesk/internal/seats"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&seats.CoachLayout{},
		&seats.LayoutSeat{},
	)
}
