// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/middleware"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
)

// ProfileHandlerInterface defines the contract for profile handlers
type ProfileHandlerInterface interface {
	GetProfile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	PublicProfile(c fiber.Ctx) error
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileFlow businessflow.ProfileFlow
	validator   *validator.Validate
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileFlow businessflow.ProfileFlow) *ProfileHandler {
	return &ProfileHandler{
		profileFlow: profileFlow,
		validator:   newValidator(),
	}
}

func (h *ProfileHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProfileHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetProfile returns the authenticated user's own profile
func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/profile")
	defer cancel()

	result, err := h.profileFlow.GetProfile(ctx, userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Profile not found", "PROFILE_NOT_FOUND", nil)
		}

		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get profile failed", "PROFILE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", result)
}

// UpdateProfile applies partial edits to the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/profile")
	defer cancel()

	result, err := h.profileFlow.UpdateProfile(ctx, userID, &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Profile not found", "PROFILE_NOT_FOUND", nil)
		}

		log.Println("Update profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Update profile failed", "PROFILE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile updated", result)
}

// PublicProfile serves the visitor-facing profile page payload. Private and
// missing profiles get the same 404.
func (h *ProfileHandler) PublicProfile(c fiber.Ctx) error {
	username := c.Params("username")

	ctx, cancel := createRequestContext(c, "/u/:username")
	defer cancel()

	result, err := h.profileFlow.PublicProfile(ctx, username)
	if err != nil {
		if businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Profile not found", "PROFILE_NOT_FOUND", nil)
		}

		log.Println("Public profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Profile lookup failed", "PROFILE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", result)
}
