package models

import (
	"time"

	"github.com/linkgrove/linkgrove/utils"
)

// ShortLink maps a short code to a target URL. Code is unique, case-sensitive
// and immutable once created. UserID is optional so anonymous short links are
// allowed. Hits is best-effort telemetry bumped on every resolution.
type ShortLink struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:32;not null;uniqueIndex:uk_short_links_code" json:"code"`
	TargetURL string     `gorm:"type:text;not null" json:"target_url"`
	UserID    *uint      `gorm:"index:idx_short_links_user_id" json:"user_id,omitempty"`
	Hits      int64      `gorm:"not null;default:0" json:"hits"`
	ExpiresAt *time.Time `gorm:"index:idx_short_links_expires_at" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_short_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ShortLink) TableName() string { return "short_links" }

// ShortLinkFilter provides filter fields for repository queries
type ShortLinkFilter struct {
	ID            *uint
	Code          *string
	UserID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (s *ShortLink) IsExpired() bool {
	return utils.IsExpiredPtr(s.ExpiresAt)
}
