// Package dto contains Data Transfer Objects for API request and response structures
package dto

// APIResponse is the envelope every JSON endpoint answers with, success or
// failure. Data is set on success, Error on failure, never both.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail carries the machine-readable error code plus optional
// field-level details for failed responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
