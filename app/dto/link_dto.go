// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateLinkRequest represents the form data for adding a bio link
type CreateLinkRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	URL         string  `json:"url" validate:"required,url,max=2048"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// UpdateLinkRequest carries partial link updates; nil fields are untouched
type UpdateLinkRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ReorderLinksRequest sets the full display order for a user's links.
// LinkIDs must contain each of the user's link IDs exactly once.
type ReorderLinksRequest struct {
	LinkIDs []uint `json:"link_ids" validate:"required,min=1,dive,required"`
}

// LinkDTO represents a bio link for API responses
type LinkDTO struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
	Clicks       int64   `json:"clicks"`
	CreatedAt    string  `json:"created_at"`
}

// ListLinksResponse wraps a user's ordered links
type ListLinksResponse struct {
	Links []LinkDTO `json:"links"`
}

// ClickResponse acknowledges a recorded click and echoes the destination
type ClickResponse struct {
	URL string `json:"url"`
}
