package models

import "time"

// Staff account. Role gates route groups (admin > treasurer > staff).
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"` // bcrypt hash
	Role     string `gorm:"size:20;not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleAdmin     = "admin"
	RoleTreasurer = "treasurer"
	RoleStaff     = "staff"
)
