package models

import (
	"encoding/json"
	"time"
)

// DefaultAccentColor is applied to new profiles until the user picks one.
const DefaultAccentColor = "#7c3aed"

// Profile holds the public-facing presentation data of a user, 1:1 with User.
// Created with defaults at sign-up, in the same transaction as the user row.
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:uk_profiles_user_id" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	Bio         string          `gorm:"size:500" json:"bio"`
	AvatarURL   *string         `gorm:"type:text" json:"avatar_url,omitempty"`
	BannerURL   *string         `gorm:"type:text" json:"banner_url,omitempty"`
	AccentColor string          `gorm:"size:7;not null;default:#7c3aed" json:"accent_color"`
	Location    *string         `gorm:"size:100" json:"location,omitempty"`
	Website     *string         `gorm:"type:text" json:"website,omitempty"`
	IsPublic    *bool           `gorm:"default:true;index:idx_profiles_is_public" json:"is_public"`
	Badges      json.RawMessage `gorm:"type:jsonb" json:"badges,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileFilter represents filter criteria for profile queries
type ProfileFilter struct {
	ID       *uint
	UserID   *uint
	IsPublic *bool
}
