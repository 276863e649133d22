package finance

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mabarril/api-desbravador/database"
	"github.com/mabarril/api-desbravador/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One in-memory database per test; a single connection keeps it alive
	// and visible across transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedMember(t *testing.T, db *gorm.DB, name string) models.Member {
	t.Helper()
	m := models.Member{Name: name, Status: "active"}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func seedFee(t *testing.T, db *gorm.DB, memberID uint, month, year int, amount string) models.MonthlyFee {
	t.Helper()
	fee := models.MonthlyFee{
		MemberID: memberID,
		Month:    month,
		Year:     year,
		Amount:   dec(amount),
		Status:   models.FeePending,
	}
	require.NoError(t, db.Create(&fee).Error)
	return fee
}

func seedRegistration(t *testing.T, db *gorm.DB, memberID uint) models.Registration {
	t.Helper()
	reg := models.Registration{
		MemberID:         memberID,
		RegistrationDate: "2024-01-10",
		Status:           models.RegistrationPending,
		PaymentStatus:    models.FeePending,
	}
	require.NoError(t, db.Create(&reg).Error)
	return reg
}

func seedEventWithParticipant(t *testing.T, db *gorm.DB, memberID uint) (models.Event, models.EventParticipant) {
	t.Helper()
	event := models.Event{Name: "Camporee", StartDate: "2024-07-01", Fee: dec("30.00")}
	require.NoError(t, db.Create(&event).Error)
	participant := models.EventParticipant{
		EventID:          event.ID,
		MemberID:         memberID,
		PaymentStatus:    models.FeePending,
		AttendanceStatus: "registered",
	}
	require.NoError(t, db.Create(&participant).Error)
	return event, participant
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
