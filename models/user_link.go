package models

import "time"

// UserLink is one entry on a user's public link list. Only the owning user
// may create, edit, or delete it. Clicks is bumped atomically together with
// the owner's UserStats.TotalLinkClicks.
type UserLink struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_user_links_user_id" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	Title        string  `gorm:"size:100;not null" json:"title"`
	URL          string  `gorm:"type:text;not null" json:"url"`
	Description  *string `gorm:"size:255" json:"description,omitempty"`
	DisplayOrder int     `gorm:"not null;default:0;index:idx_user_links_display_order" json:"display_order"`
	IsActive     *bool   `gorm:"default:true;index:idx_user_links_is_active" json:"is_active"`
	Clicks       int64   `gorm:"not null;default:0" json:"clicks"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (UserLink) TableName() string {
	return "user_links"
}

// UserLinkFilter represents filter criteria for link queries
type UserLinkFilter struct {
	ID       *uint
	UserID   *uint
	IsActive *bool
}
