package db

import (
	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/statuscore-dev/statuscore/internal/models"
)

// Connect opens the platform database. Callers own the handle; there
// is no package-level connection.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate creates any missing monitoring tables. Failures are
// collected so one broken table does not hide the rest.
func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.Monitor{},
		&models.Check{},
		&models.ErrorEvent{},
		&models.AlertConfiguration{},
		&models.AlertTrigger{},
		&models.Incident{},
	}

	migrator := conn.Migrator()

	var errs error

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := conn.AutoMigrate(table); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}

	return errs
}
