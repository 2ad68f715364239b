package models

import (
	"time"
)

// Role defines allowed account roles in the system
type Role string

const (
	RoleUser       Role = "user"
	RoleVendor     Role = "vendor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// User is a customer account
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone         string    `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	Role          Role      `json:"role" gorm:"not null;default:'user'"`
	Avatar        string    `json:"avatar"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	PhoneVerified bool      `json:"phone_verified" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Admin is an administrator account with a login-lockout policy
type Admin struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone         string     `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash  string     `json:"-" gorm:"not null"`
	Role          Role       `json:"role" gorm:"not null;default:'admin'"`
	Permissions   string     `json:"permissions"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	LoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil   *time.Time `json:"-"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsLocked reports whether the cooling-off window is still in effect
func (a *Admin) IsLocked() bool {
	return a.LockedUntil != nil && a.LockedUntil.After(time.Now())
}
