package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// GenerateMonthlyFees creates one pending fee per member for (month, year),
// skipping members that already have one. The whole batch commits or rolls
// back as a unit.
func (s *Service) GenerateMonthlyFees(month, year int, amount decimal.Decimal, dueDate string) (*BatchResult, error) {
	if month < 1 || month > 12 {
		return nil, validationErr("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, validationErr("year must be between 2000 and 2100")
	}

	var members []models.Member
	if err := s.db.Find(&members).Error; err != nil {
		return nil, persistenceErr("list members", err)
	}
	if len(members) == 0 {
		return nil, notFoundErr("no members found")
	}

	if dueDate == "" {
		dueDate = "Not specified"
	}
	notes := fmt.Sprintf("Auto-generated fee for %d/%d. Due date: %s", month, year, dueDate)

	return runBatch(s.db, members,
		func(tx *gorm.DB, m models.Member) (bool, error) {
			var count int64
			err := tx.Model(&models.MonthlyFee{}).
				Where("member_id = ? AND month = ? AND year = ?", m.ID, month, year).
				Count(&count).Error
			if err != nil {
				return false, persistenceErr("check existing fee", err)
			}
			return count > 0, nil
		},
		func(tx *gorm.DB, m models.Member) (uint, error) {
			fee := models.MonthlyFee{
				MemberID: m.ID,
				Month:    month,
				Year:     year,
				Amount:   amount,
				Status:   models.FeePending,
				Notes:    notes,
			}
			if err := tx.Create(&fee).Error; err != nil {
				return 0, persistenceErr("create monthly fee", err)
			}
			return fee.ID, nil
		},
	)
}
