package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment reference kinds. A payment may settle a registration, a monthly
// fee or an event participation; "other" is bookkeeping-only.
const (
	ReferenceRegistration = "registration"
	ReferenceMonthlyFee   = "monthly_fee"
	ReferenceEvent        = "event"
	ReferenceOther        = "other"
)

// Payment methods.
const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodOther        = "other"
)

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MemberID      *uint           `gorm:"index" json:"member_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentDate   string          `gorm:"size:10;not null" json:"payment_date"` // YYYY-MM-DD
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	Description   string          `gorm:"type:text" json:"description"`
	ReferenceType string          `gorm:"size:20;index" json:"reference_type,omitempty"`
	ReferenceID   *uint           `gorm:"index" json:"reference_id,omitempty"`
	CreatedBy     uint            `gorm:"index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
