package model

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies what a user is allowed to do. The full permission
// table lives in the policy package.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCaregiver Role = "caregiver"
	RoleKitchen   Role = "kitchen"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCaregiver, RoleKitchen:
		return true
	}
	return false
}

// User represents a staff member who can authenticate against the API.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role           `json:"role" gorm:"size:50;not null;default:'caregiver';index"`
	Active       bool           `json:"active" gorm:"default:true;index"`
	TOTPSecret   string         `json:"-" gorm:"size:64"` // base32; empty means 2FA disabled
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TwoFactorEnabled reports whether the user must pass TOTP verification
// after the password step.
func (u *User) TwoFactorEnabled() bool {
	return u.TOTPSecret != ""
}
