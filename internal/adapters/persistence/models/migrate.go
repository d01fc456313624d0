package models

import "gorm.io/gorm"

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AppSnapshot{},
		&RefreshToken{},
	)
}
