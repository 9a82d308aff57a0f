// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "encoding/json"

// UpdateProfileRequest carries partial profile updates; nil fields are untouched
type UpdateProfileRequest struct {
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=2048"`
	BannerURL   *string `json:"banner_url,omitempty" validate:"omitempty,url,max=2048"`
	AccentColor *string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=2048"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=60"`
}

// ProfileDTO represents profile data for API responses
type ProfileDTO struct {
	Bio         string          `json:"bio"`
	AvatarURL   *string         `json:"avatar_url,omitempty"`
	BannerURL   *string         `json:"banner_url,omitempty"`
	AccentColor string          `json:"accent_color"`
	Location    *string         `json:"location,omitempty"`
	Website     *string         `json:"website,omitempty"`
	IsPublic    *bool           `json:"is_public"`
	Badges      json.RawMessage `json:"badges,omitempty"`
	UpdatedAt   string          `json:"updated_at"`
}

// UserStatsDTO represents per-user counters for API responses
type UserStatsDTO struct {
	ProfileViews    int64 `json:"profile_views"`
	TotalLinkClicks int64 `json:"total_link_clicks"`
	Followers       int64 `json:"followers"`
	Score           int64 `json:"score"`
}

// ProfileResponse is the owner's view of their profile
type ProfileResponse struct {
	User    UserDTO      `json:"user"`
	Profile ProfileDTO   `json:"profile"`
	Stats   UserStatsDTO `json:"stats"`
}

// PublicProfileResponse is the visitor-facing profile page payload
type PublicProfileResponse struct {
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Profile     ProfileDTO   `json:"profile"`
	Stats       UserStatsDTO `json:"stats"`
	Links       []LinkDTO    `json:"links"`
}
