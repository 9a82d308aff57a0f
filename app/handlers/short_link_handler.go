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

// ShortLinkHandlerInterface defines the contract for short link handlers
type ShortLinkHandlerInterface interface {
	CreateShortLink(c fiber.Ctx) error
	ListShortLinks(c fiber.Ctx) error
	Resolve(c fiber.Ctx) error
}

// ShortLinkHandler handles URL shortener HTTP requests
type ShortLinkHandler struct {
	shortLinkFlow businessflow.ShortLinkFlow
	validator     *validator.Validate
}

// NewShortLinkHandler creates a new short link handler
func NewShortLinkHandler(shortLinkFlow businessflow.ShortLinkFlow) *ShortLinkHandler {
	return &ShortLinkHandler{
		shortLinkFlow: shortLinkFlow,
		validator:     newValidator(),
	}
}

func (h *ShortLinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ShortLinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateShortLink mints a short link. Works for anonymous callers too; when a
// session is present the link is attributed to the user.
func (h *ShortLinkHandler) CreateShortLink(c fiber.Ctx) error {
	var req dto.CreateShortLinkRequest
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

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	ctx, cancel := createRequestContext(c, "/api/v1/short-links")
	defer cancel()

	result, err := h.shortLinkFlow.CreateShortLink(ctx, userID, &req)
	if err != nil {
		if businessflow.IsInvalidShortCode(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid short code", "INVALID_SHORT_CODE", nil)
		}
		if businessflow.IsShortCodeTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Short code is already taken", "SHORT_CODE_TAKEN", nil)
		}
		if businessflow.IsShortCodeExhausted(err) {
			log.Println("Short code allocation exhausted", err)
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Could not allocate a short code", "SHORT_CODE_EXHAUSTED", nil)
		}

		log.Println("Create short link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Create short link failed", "SHORT_LINK_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Short link created", result)
}

// ListShortLinks returns the authenticated user's short links
func (h *ShortLinkHandler) ListShortLinks(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/short-links")
	defer cancel()

	result, err := h.shortLinkFlow.ListShortLinks(ctx, userID)
	if err != nil {
		log.Println("List short links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List short links failed", "SHORT_LINK_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", result)
}

// Resolve redirects a short code to its target URL. Codes match exactly and
// case-sensitively; expired codes answer 410.
func (h *ShortLinkHandler) Resolve(c fiber.Ctx) error {
	code := c.Params("code")

	ctx, cancel := createRequestContext(c, "/s/:code")
	defer cancel()

	target, err := h.shortLinkFlow.Resolve(ctx, code)
	if err != nil {
		if businessflow.IsShortLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short link not found", "SHORT_LINK_NOT_FOUND", nil)
		}
		if businessflow.IsShortLinkExpired(err) {
			return h.ErrorResponse(c, fiber.StatusGone, "Short link has expired", "SHORT_LINK_EXPIRED", nil)
		}

		log.Println("Short link resolve failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Short link resolve failed", "SHORT_LINK_RESOLVE_FAILED", nil)
	}

	middleware.CountRedirect("short")
	return c.Redirect().Status(fiber.StatusFound).To(target)
}
