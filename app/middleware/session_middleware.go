// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/linkgrove/linkgrove/app/dto"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
)

// SessionMiddleware resolves the session cookie to a user for protected
// endpoints. The opaque token never leaves the cookie; handlers downstream
// only see the resolved user.
type SessionMiddleware struct {
	authFlow businessflow.AuthFlow
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(authFlow businessflow.AuthFlow) *SessionMiddleware {
	return &SessionMiddleware{
		authFlow: authFlow,
	}
}

// Authenticate rejects requests without a valid session cookie
func (m *SessionMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(utils.SessionCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error: dto.ErrorDetail{
					Code: "MISSING_SESSION",
				},
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := m.authFlow.ValidateSession(ctx, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Session is invalid or expired",
				Error: dto.ErrorDetail{
					Code: "SESSION_INVALID",
				},
			})
		}

		// Store user information in context for downstream handlers
		c.Locals("user_id", session.UserID)
		c.Locals("session_id", session.ID)
		c.Locals("user", &session.User)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// OptionalAuth resolves the session cookie if present but lets anonymous
// requests through
func (m *SessionMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(utils.SessionCookieName)
		if token == "" {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := m.authFlow.ValidateSession(ctx, token)
		if err != nil {
			// Invalid cookie on an optional route is treated as anonymous
			return c.Next()
		}

		c.Locals("user_id", session.UserID)
		c.Locals("session_id", session.ID)
		c.Locals("user", &session.User)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}
