package models

import "time"

// Registration is a member's yearly enrollment request.
type Registration struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	MemberID         uint   `gorm:"index;not null" json:"member_id"`
	RegistrationDate string `gorm:"size:10;not null" json:"registration_date"` // YYYY-MM-DD
	Status           string `gorm:"size:20;not null;default:pending" json:"status"`
	PaymentStatus    string `gorm:"size:20;not null;default:pending" json:"payment_status"`
	Notes            string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registration.Status values.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)
