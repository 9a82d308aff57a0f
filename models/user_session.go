// Package models contains domain entities and business models for the bio-link platform
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/linkgrove/linkgrove/utils"
)

// UserSession is an opaque server-side session. The token carries no claims;
// validity is decided solely by the presence and expiry of this row.
type UserSession struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_sessions_correlation_id" json:"correlation_id"`
	UserID        uint      `gorm:"not null;index:idx_user_sessions_user_id" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Token         string    `gorm:"size:64;not null;uniqueIndex:uk_user_sessions_token" json:"-"` // Never serialize token
	IPAddress     *string   `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent     *string   `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	LastAccessedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_user_sessions_expires_at" json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// UserSessionFilter represents filter criteria for session queries
type UserSessionFilter struct {
	ID            *uint
	CorrelationID *uuid.UUID
	UserID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	IsExpired     *bool // Helper to filter expired sessions
}

func (s *UserSession) IsExpired() bool {
	return !utils.UTCNow().Before(s.ExpiresAt)
}
