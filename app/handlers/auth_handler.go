// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/middleware"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/config"
	"github.com/linkgrove/linkgrove/utils"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Me(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests. It owns the
// session cookie: flows hand it the raw token and it never appears in JSON.
type AuthHandler struct {
	authFlow  businessflow.AuthFlow
	cookieCfg config.SessionCookieConfig
	validator *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow, cookieCfg config.SessionCookieConfig) *AuthHandler {
	return &AuthHandler{
		authFlow:  authFlow,
		cookieCfg: cookieCfg,
		validator: newValidator(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Signup handles account registration
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
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

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/auth/signup")
	defer cancel()

	result, token, err := h.authFlow.Signup(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}
		if businessflow.IsUsernameAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Username already exists", "USERNAME_EXISTS", nil)
		}
		if businessflow.IsInvalidEmail(err) || businessflow.IsInvalidUsername(err) || businessflow.IsWeakPassword(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", nil)
		}

		log.Println("Signup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	h.setSessionCookie(c, token)

	return h.SuccessResponse(c, fiber.StatusCreated, "Account created", result)
}

// Login handles sign-in
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
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

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/auth/login")
	defer cancel()

	result, token, err := h.authFlow.Login(ctx, &req, metadata)
	if err != nil {
		// Unknown email and wrong password produce the same response
		if businessflow.IsInvalidCredentials(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	h.setSessionCookie(c, token)

	return h.SuccessResponse(c, fiber.StatusOK, "Signed in", result)
}

// Logout handles sign-out. It succeeds even when no session exists, so the
// client can always converge to a signed-out state.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token := c.Cookies(utils.SessionCookieName)

	ctx, cancel := createRequestContext(c, "/api/v1/auth/logout")
	defer cancel()

	result, err := h.authFlow.Logout(ctx, token)
	if err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	h.clearSessionCookie(c)

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, nil)
}

// Me returns the authenticated user's account data
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "OK", businessflow.ToUserDTO(*user))
}

// Cookie handling: http-only, SameSite=Lax, Secure per deployment config

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieCfg.Domain,
		MaxAge:   utils.SessionTTLSeconds,
		Expires:  time.Now().Add(utils.SessionTTL),
		Secure:   h.cookieCfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieCfg.Domain,
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.cookieCfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
