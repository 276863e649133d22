package finance

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// Service reconciles payments with the cash ledger and the records they
// settle. All operations go through the single shared store handle.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// PaymentInput is the payload for creating a payment.
type PaymentInput struct {
	MemberID      *uint
	Amount        decimal.Decimal
	PaymentDate   string
	PaymentMethod string
	Description   string
	ReferenceType string
	ReferenceID   *uint
	CreatedBy     uint
}

// PaymentPatch carries only the fields being updated. Absent fields leave
// the row untouched; an all-nil patch returns the current row unchanged.
type PaymentPatch struct {
	MemberID      *uint
	Amount        *decimal.Decimal
	PaymentDate   *string
	PaymentMethod *string
	Description   *string
	ReferenceType *string
	ReferenceID   *uint
}

// CreatePayment validates the reference, inserts the payment, marks the
// referenced record settled and appends the mirroring ledger row.
//
// The three writes run as separate statements, not one transaction.
// Deletion is the atomic side of the pair.
func (s *Service) CreatePayment(in PaymentInput) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, validationErr("amount must be greater than zero")
	}
	if in.PaymentDate == "" {
		return nil, validationErr("payment date is required")
	}

	if in.MemberID != nil {
		if err := s.checkMemberExists(s.db, *in.MemberID); err != nil {
			return nil, err
		}
	}

	ref, err := resolveReference(s.db, in.ReferenceType, in.ReferenceID, in.MemberID)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		MemberID:      in.MemberID,
		Amount:        in.Amount,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Description:   in.Description,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.CreatedBy,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, persistenceErr("create payment", err)
	}

	if ref != nil {
		if err := ref.markSettled(s.db, payment.PaymentDate); err != nil {
			return nil, err
		}
	}

	if err := appendLedgerEntry(s.db, &payment); err != nil {
		return nil, err
	}

	return &payment, nil
}

// GetPayment loads one payment by id.
func (s *Service) GetPayment(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("no payment found with ID %d", id)
		}
		return nil, persistenceErr("look up payment", err)
	}
	return &payment, nil
}

// UpdatePayment applies the present patch fields to the payment and keeps
// the ledger mirror's amount, date and description in step. A patch touching
// the reference re-validates it exactly as on create; settlement status of
// the old or new reference is not changed by an update.
func (s *Service) UpdatePayment(id uint, patch PaymentPatch) (*models.Payment, error) {
	payment, err := s.GetPayment(id)
	if err != nil {
		return nil, err
	}

	if patch.MemberID != nil {
		if err := s.checkMemberExists(s.db, *patch.MemberID); err != nil {
			return nil, err
		}
	}

	if patch.ReferenceType != nil || patch.ReferenceID != nil {
		kind := payment.ReferenceType
		if patch.ReferenceType != nil {
			kind = *patch.ReferenceType
		}
		refID := payment.ReferenceID
		if patch.ReferenceID != nil {
			refID = patch.ReferenceID
		}
		memberID := payment.MemberID
		if patch.MemberID != nil {
			memberID = patch.MemberID
		}
		if _, err := resolveReference(s.db, kind, refID, memberID); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if patch.MemberID != nil {
		updates["member_id"] = *patch.MemberID
	}
	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return nil, validationErr("amount must be greater than zero")
		}
		updates["amount"] = *patch.Amount
	}
	if patch.PaymentDate != nil {
		updates["payment_date"] = *patch.PaymentDate
	}
	if patch.PaymentMethod != nil {
		updates["payment_method"] = *patch.PaymentMethod
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ReferenceType != nil {
		updates["reference_type"] = *patch.ReferenceType
	}
	if patch.ReferenceID != nil {
		updates["reference_id"] = *patch.ReferenceID
	}

	if len(updates) == 0 {
		return payment, nil
	}

	if err := s.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, persistenceErr("update payment", err)
	}

	// Mirror amount/date/description changes onto the ledger row.
	if patch.Amount != nil || patch.PaymentDate != nil || patch.Description != nil {
		fields := map[string]any{}
		if patch.Amount != nil {
			fields["amount"] = *patch.Amount
		}
		if patch.PaymentDate != nil {
			fields["transaction_date"] = *patch.PaymentDate
		}
		if patch.Description != nil {
			fields["description"] = *patch.Description
		}
		if err := updateLedgerEntry(s.db, id, fields); err != nil {
			return nil, err
		}
	}

	return s.GetPayment(id)
}

// DeletePayment removes the payment, its ledger mirror and the settlement
// mark of its reference in one transaction. Any failure rolls the whole
// deletion back.
func (s *Service) DeletePayment(id uint) error {
	payment, err := s.GetPayment(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Payment{}, payment.ID).Error; err != nil {
			return persistenceErr("delete payment", err)
		}
		if err := removeLedgerEntry(tx, payment.ID); err != nil {
			return err
		}
		if payment.ReferenceID != nil {
			switch payment.ReferenceType {
			case models.ReferenceRegistration, models.ReferenceMonthlyFee, models.ReferenceEvent:
				ref := &resolvedReference{
					kind:     payment.ReferenceType,
					id:       *payment.ReferenceID,
					memberID: payment.MemberID,
				}
				if err := ref.markUnsettled(tx); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Service) checkMemberExists(tx *gorm.DB, id uint) error {
	var member models.Member
	if err := tx.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr("no member found with ID %d", id)
		}
		return persistenceErr("look up member", err)
	}
	return nil
}
