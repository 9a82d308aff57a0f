// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to UserDTO for API responses
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:           user.ID,
		UUID:         user.UUID.String(),
		Email:        user.Email,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Role:         user.Role,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		LastActiveAt: user.LastActiveAt,
	}
}

func ToSessionDTO(session models.UserSession) dto.SessionDTO {
	return dto.SessionDTO{
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		ExpiresIn: int(session.ExpiresAt.Sub(utils.UTCNow()).Seconds()),
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
	}
}

func ToProfileDTO(profile models.Profile) dto.ProfileDTO {
	return dto.ProfileDTO{
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
		BannerURL:   profile.BannerURL,
		AccentColor: profile.AccentColor,
		Location:    profile.Location,
		Website:     profile.Website,
		IsPublic:    profile.IsPublic,
		Badges:      profile.Badges,
		UpdatedAt:   profile.UpdatedAt.Format(time.RFC3339),
	}
}

func ToUserStatsDTO(stats models.UserStats) dto.UserStatsDTO {
	return dto.UserStatsDTO{
		ProfileViews:    stats.ProfileViews,
		TotalLinkClicks: stats.TotalLinkClicks,
		Followers:       stats.Followers,
		Score:           stats.Score,
	}
}

func ToLinkDTO(link models.UserLink) dto.LinkDTO {
	return dto.LinkDTO{
		ID:           link.ID,
		Title:        link.Title,
		URL:          link.URL,
		Description:  link.Description,
		DisplayOrder: link.DisplayOrder,
		IsActive:     link.IsActive,
		Clicks:       link.Clicks,
		CreatedAt:    link.CreatedAt.Format(time.RFC3339),
	}
}

func ToShortLinkDTO(sl models.ShortLink) dto.ShortLinkDTO {
	var expiresAt *string
	if sl.ExpiresAt != nil {
		formatted := sl.ExpiresAt.Format(time.RFC3339)
		expiresAt = &formatted
	}
	return dto.ShortLinkDTO{
		ID:        sl.ID,
		Code:      sl.Code,
		TargetURL: sl.TargetURL,
		Hits:      sl.Hits,
		ExpiresAt: expiresAt,
		CreatedAt: sl.CreatedAt.Format(time.RFC3339),
	}
}
