// Package models contains domain entities and business models for the bio-link platform
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleUser  = "user"
	RoleOwner = "owner"
)

type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	// Email and Username are stored lowercased so the unique indexes enforce
	// case-insensitive uniqueness.
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	Username     string `gorm:"size:30;not null;uniqueIndex:uk_users_username" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	DisplayName  string `gorm:"size:60;not null" json:"display_name"`
	Role         string `gorm:"size:20;not null;default:user" json:"role"`

	IsActive *bool `gorm:"default:true;index:idx_users_is_active" json:"is_active"`

	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastActiveAt *time.Time `gorm:"index:idx_users_last_active_at" json:"last_active_at,omitempty"`

	// Relations
	Profile  *Profile      `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Stats    *UserStats    `gorm:"foreignKey:UserID" json:"stats,omitempty"`
	Links    []UserLink    `gorm:"foreignKey:UserID" json:"-"`
	Sessions []UserSession `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID               *uint
	UUID             *uuid.UUID
	Email            *string
	Username         *string
	Role             *string
	IsActive         *bool
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
	LastActiveAfter  *time.Time
	LastActiveBefore *time.Time
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername lowercases and trims a username for storage and lookup.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
