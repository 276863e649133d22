package models

import "time"

// Member is a club member (pathfinder).
type Member struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100" json:"email"`
	Phone     string     `gorm:"size:20" json:"phone"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	UnitID    *uint      `gorm:"index" json:"unit_id,omitempty"`
	Status    string     `gorm:"size:20;not null;default:active" json:"status"` // active|inactive

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
