// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateShortLinkRequest represents the form data for creating a short link
type CreateShortLinkRequest struct {
	TargetURL  string  `json:"target_url" validate:"required,url,max=2048"`
	CustomCode *string `json:"custom_code,omitempty" validate:"omitempty,min=4,max=32,short_code_format"`
	TTLSeconds *int64  `json:"ttl_seconds,omitempty" validate:"omitempty,min=60"`
}

// ShortLinkDTO represents a short link for API responses
type ShortLinkDTO struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code"`
	TargetURL string  `json:"target_url"`
	Hits      int64   `json:"hits"`
	ExpiresAt *string `json:"expires_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ListShortLinksResponse wraps a user's short links
type ListShortLinksResponse struct {
	ShortLinks []ShortLinkDTO `json:"short_links"`
}
