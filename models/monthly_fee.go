package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyFee statuses.
const (
	FeePending = "pending"
	FeePaid    = "paid"
	FeeWaived  = "waived"
)

// MonthlyFee is one member's dues for one (month, year). At most one row per
// (member, month, year).
type MonthlyFee struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	MemberID    uint            `gorm:"uniqueIndex:idx_fee_member_period;not null" json:"member_id"`
	Month       int             `gorm:"uniqueIndex:idx_fee_member_period;not null" json:"month"`
	Year        int             `gorm:"uniqueIndex:idx_fee_member_period;not null" json:"year"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;not null;default:pending" json:"status"`
	PaymentDate *string         `gorm:"size:10" json:"payment_date,omitempty"` // set when paid
	Notes       string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
