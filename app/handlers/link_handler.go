// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/middleware"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
)

// LinkHandlerInterface defines the contract for link handlers
type LinkHandlerInterface interface {
	CreateLink(c fiber.Ctx) error
	UpdateLink(c fiber.Ctx) error
	DeleteLink(c fiber.Ctx) error
	ListLinks(c fiber.Ctx) error
	ReorderLinks(c fiber.Ctx) error
	Click(c fiber.Ctx) error
	ExportClickReport(c fiber.Ctx) error
}

// LinkHandler handles bio link HTTP requests
type LinkHandler struct {
	linkFlow  businessflow.LinkFlow
	validator *validator.Validate
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkFlow businessflow.LinkFlow) *LinkHandler {
	return &LinkHandler{
		linkFlow:  linkFlow,
		validator: newValidator(),
	}
}

func (h *LinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateLink adds a new link to the authenticated user's list
func (h *LinkHandler) CreateLink(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateLinkRequest
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

	ctx, cancel := createRequestContext(c, "/api/v1/links")
	defer cancel()

	result, err := h.linkFlow.CreateLink(ctx, userID, &req)
	if err != nil {
		if businessflow.IsLinkAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Link limit reached", "LINK_LIMIT_REACHED", nil)
		}

		log.Println("Create link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Create link failed", "LINK_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Link created", result)
}

// UpdateLink edits a link the authenticated user owns
func (h *LinkHandler) UpdateLink(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	linkID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link id", "INVALID_LINK_ID", nil)
	}

	var req dto.UpdateLinkRequest
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

	ctx, cancel := createRequestContext(c, "/api/v1/links/:id")
	defer cancel()

	result, err := h.linkFlow.UpdateLink(ctx, userID, linkID, &req)
	if err != nil {
		return h.linkError(c, "Update link failed", "LINK_UPDATE_FAILED", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link updated", result)
}

// DeleteLink removes a link the authenticated user owns
func (h *LinkHandler) DeleteLink(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	linkID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link id", "INVALID_LINK_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/links/:id")
	defer cancel()

	if err := h.linkFlow.DeleteLink(ctx, userID, linkID); err != nil {
		return h.linkError(c, "Delete link failed", "LINK_DELETE_FAILED", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link deleted", nil)
}

// ListLinks returns the authenticated user's links in display order
func (h *LinkHandler) ListLinks(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/links")
	defer cancel()

	result, err := h.linkFlow.ListLinks(ctx, userID)
	if err != nil {
		log.Println("List links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List links failed", "LINK_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", result)
}

// ReorderLinks replaces the display order of the user's links
func (h *LinkHandler) ReorderLinks(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.ReorderLinksRequest
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

	ctx, cancel := createRequestContext(c, "/api/v1/links/reorder")
	defer cancel()

	result, err := h.linkFlow.ReorderLinks(ctx, userID, &req)
	if err != nil {
		if businessflow.IsInvalidDisplayOrder(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Link ids must cover your links exactly once", "INVALID_DISPLAY_ORDER", nil)
		}

		log.Println("Reorder links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Reorder links failed", "LINK_REORDER_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Links reordered", result)
}

// Click records a click on a public link and redirects to its destination
func (h *LinkHandler) Click(c fiber.Ctx) error {
	linkID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link id", "INVALID_LINK_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/l/:id")
	defer cancel()

	result, err := h.linkFlow.TrackClick(ctx, linkID)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
		}

		log.Println("Click tracking failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Click tracking failed", "CLICK_TRACK_FAILED", nil)
	}

	middleware.CountRedirect("link")
	return c.Redirect().Status(fiber.StatusFound).To(result.URL)
}

// ExportClickReport streams an xlsx report of the user's links and counters
func (h *LinkHandler) ExportClickReport(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/links/report")
	defer cancel()

	filename, data, err := h.linkFlow.ExportClickReport(ctx, userID)
	if err != nil {
		log.Println("Export click report failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Export failed", "REPORT_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *LinkHandler) linkError(c fiber.Ctx, message, code string, err error) error {
	if businessflow.IsLinkNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
	}
	if businessflow.IsLinkAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Link access denied", "LINK_ACCESS_DENIED", nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

func parseIDParam(c fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
