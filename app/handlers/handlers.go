// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "eqfield":
		return err.Field() + " must match " + err.Param()
	case "url":
		return err.Field() + " must be a valid URL"
	case "hexcolor":
		return err.Field() + " must be a hex color like #7c3aed"
	case "username_format":
		return "Username may contain lowercase letters, digits, underscore and hyphen"
	case "short_code_format":
		return "Short code may contain letters, digits, underscore and hyphen"
	case "password_strength":
		return "Password must contain upper and lower case letters and a number"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// newValidator builds a validator with the custom rules the DTOs reference
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("username_format", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9') || char == '_' || char == '-') {
				return false
			}
		}
		return len(value) > 0
	})

	_ = v.RegisterValidation("short_code_format", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9') || char == '_' || char == '-') {
				return false
			}
		}
		return len(value) > 0
	})

	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		var hasUpper, hasLower, hasDigit bool
		for _, char := range value {
			switch {
			case char >= 'A' && char <= 'Z':
				hasUpper = true
			case char >= 'a' && char <= 'z':
				hasLower = true
			case char >= '0' && char <= '9':
				hasDigit = true
			}
		}
		return hasUpper && hasLower && hasDigit
	})

	return v
}

// createRequestContext builds a request-scoped context with a default timeout
func createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, requestIDContextKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, endpointContextKey, endpoint)

	return ctx, cancel
}

type handlerContextKey string

const (
	requestIDContextKey handlerContextKey = "request_id"
	endpointContextKey  handlerContextKey = "endpoint"
)
