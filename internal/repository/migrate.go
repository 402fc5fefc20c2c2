package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this package
// owns, including the unique indexes that back the double-bid and
// duplicate-notification guarantees.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&providerModel{},
		&projectModel{},
		&quoteModel{},
		&notificationModel{},
	)
}
