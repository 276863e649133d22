package finance

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// paymentRef is the ledger tag linking a cash book row to its payment.
func paymentRef(paymentID uint) string {
	return fmt.Sprintf("payment_id:%d", paymentID)
}

// appendLedgerEntry writes the income row mirroring a new payment.
func appendLedgerEntry(tx *gorm.DB, p *models.Payment) error {
	description := p.Description
	if description == "" {
		if p.MemberID != nil {
			description = "Payment from member"
		} else {
			description = "Payment from external source"
		}
	}
	category := p.ReferenceType
	if category == "" {
		category = models.ReferenceOther
	}

	entry := models.CashBookEntry{
		TransactionDate: p.PaymentDate,
		Description:     description,
		Amount:          p.Amount,
		Type:            models.EntryIncome,
		Category:        category,
		Reference:       paymentRef(p.ID),
		CreatedBy:       p.CreatedBy,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return persistenceErr("create cash book entry", err)
	}
	return nil
}

// updateLedgerEntry patches the mirror row's changed fields. A missing row
// is a silent no-op; the invariant says it exists, but an absent mirror must
// not fail the payment update.
func updateLedgerEntry(tx *gorm.DB, paymentID uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	var entry models.CashBookEntry
	err := tx.Where("reference = ? AND type = ?", paymentRef(paymentID), models.EntryIncome).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return persistenceErr("look up cash book entry", err)
	}
	if err := tx.Model(&entry).Updates(fields).Error; err != nil {
		return persistenceErr("update cash book entry", err)
	}
	return nil
}

// removeLedgerEntry deletes the mirror row of a deleted payment.
func removeLedgerEntry(tx *gorm.DB, paymentID uint) error {
	err := tx.Where("reference = ? AND type = ?", paymentRef(paymentID), models.EntryIncome).
		Delete(&models.CashBookEntry{}).Error
	if err != nil {
		return persistenceErr("delete cash book entry", err)
	}
	return nil
}
