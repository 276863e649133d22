package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/config"
	"github.com/mabarril/api-desbravador/models"
)

// Open connects to Postgres and migrates the schema. The returned handle is
// the single shared connection pool; callers pass it down explicitly instead
// of reaching for a package global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables. Shared by Open and the test setup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Member{},
		&models.Registration{},
		&models.Event{},
		&models.EventParticipant{},
		&models.MonthlyFee{},
		&models.Payment{},
		&models.CashBookEntry{},
		&models.AttendanceRecord{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close drains the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
