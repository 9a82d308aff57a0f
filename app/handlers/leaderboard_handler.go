// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/linkgrove/linkgrove/app/dto"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
)

// LeaderboardHandlerInterface defines the contract for leaderboard handlers
type LeaderboardHandlerInterface interface {
	Top(c fiber.Ctx) error
}

// LeaderboardHandler serves the public score ranking
type LeaderboardHandler struct {
	leaderboardFlow businessflow.LeaderboardFlow
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardFlow businessflow.LeaderboardFlow) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardFlow: leaderboardFlow,
	}
}

func (h *LeaderboardHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LeaderboardHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Top returns the highest-scored public users
func (h *LeaderboardHandler) Top(c fiber.Ctx) error {
	limit := businessflow.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid limit", "INVALID_LIMIT", nil)
		}
		limit = parsed
	}

	ctx, cancel := createRequestContext(c, "/api/v1/leaderboard")
	defer cancel()

	result, err := h.leaderboardFlow.Top(ctx, limit)
	if err != nil {
		if businessflow.IsInvalidLimit(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid limit", "INVALID_LIMIT", nil)
		}

		log.Println("Leaderboard fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Leaderboard fetch failed", "LEADERBOARD_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", result)
}
