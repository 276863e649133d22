package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashBookEntry types.
const (
	EntryIncome  = "income"
	EntryExpense = "expense"
)

// CashBookEntry is one row of the club's flat cash ledger. Entries mirroring
// a payment carry Reference = "payment_id:<id>" and track that payment's
// amount and date.
type CashBookEntry struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TransactionDate string          `gorm:"size:10;not null" json:"transaction_date"` // YYYY-MM-DD
	Description     string          `gorm:"type:text" json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Type            string          `gorm:"size:10;not null" json:"type"` // income|expense
	Category        string          `gorm:"size:50" json:"category"`
	Reference       string          `gorm:"size:100;index" json:"reference"`
	CreatedBy       uint            `gorm:"index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
