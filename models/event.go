package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	StartDate   string          `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD
	EndDate     string          `gorm:"size:10" json:"end_date"`
	Location    string          `gorm:"size:200" json:"location"`
	Fee         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"fee"`
	MaxCapacity *int            `json:"max_capacity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventParticipant links a member to an event. Settlement of an event payment
// flips PaymentStatus on this row, never AttendanceStatus.
type EventParticipant struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	EventID          uint   `gorm:"uniqueIndex:idx_event_member;not null" json:"event_id"`
	MemberID         uint   `gorm:"uniqueIndex:idx_event_member;not null" json:"member_id"`
	RegistrationDate string `gorm:"size:10" json:"registration_date"`
	PaymentStatus    string `gorm:"size:20;not null;default:pending" json:"payment_status"`
	AttendanceStatus string `gorm:"size:20;not null;default:registered" json:"attendance_status"`
	Notes            string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
