package models

import "time"

// UserStats aggregates per-user counters, 1:1 with User. Counters are only
// ever moved with atomic "SET x = x + n" updates; TotalLinkClicks must equal
// the sum of the user's UserLink.Clicks, which the click transaction enforces.
type UserStats struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:uk_user_stats_user_id" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	ProfileViews    int64 `gorm:"not null;default:0" json:"profile_views"`
	TotalLinkClicks int64 `gorm:"not null;default:0" json:"total_link_clicks"`
	Followers       int64 `gorm:"not null;default:0" json:"followers"`
	Score           int64 `gorm:"not null;default:0;index:idx_user_stats_score" json:"score"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// UserStatsFilter represents filter criteria for stats queries
type UserStatsFilter struct {
	ID       *uint
	UserID   *uint
	MinScore *int64
}
