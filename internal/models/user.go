package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a customer or administrator account.
type User struct {
	BaseModel
	Name              string        `gorm:"not null" json:"name"`
	Email             string        `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string        `json:"phone"`
	PasswordHash      string        `gorm:"not null" json:"-"`
	Role              Role          `gorm:"type:varchar(16);not null" json:"role"`
	IsBlocked         bool          `json:"is_blocked"`
	LoyaltyPoints     int           `json:"loyalty_points"`
	Addresses         []UserAddress `gorm:"constraint:OnDelete:CASCADE" json:"addresses"`
	ResetTokenHash    string        `gorm:"index" json:"-"`
	ResetTokenExpires *time.Time    `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserAddress is one entry of a user's address book.
type UserAddress struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Label     string    `json:"label"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	IsDefault bool      `json:"is_default"`
}
