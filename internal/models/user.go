package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
)

// AdminUser is an operator allowed to sign in to the admin surface.
type AdminUser struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}
