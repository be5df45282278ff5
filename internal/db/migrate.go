package db

import (
	"vegetable_inventory/internal/domain" // Importing domain models

	"github.com/pkg/errors"      // Error wrapping
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate creates or updates the users and vegetables tables.
// The unique index on users.name is what closes the duplicate registration race.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Vegetable{}); err != nil {
		return errors.Wrap(err, "migration failed")
	}
	logrus.Debug("Migration completed.") // Log successful migration
	return nil
}
