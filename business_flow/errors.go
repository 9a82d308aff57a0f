// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrInvalidEmail          = errors.New("email address is invalid")
	ErrInvalidUsername       = errors.New("username is invalid")
	ErrWeakPassword          = errors.New("password does not meet strength requirements")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrAccountInactive       = errors.New("account is inactive")

	// Authentication errors. Unknown email and wrong password share one
	// sentinel so responses cannot be used to probe registered emails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session is invalid or expired")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Link errors
	ErrLinkNotFound        = errors.New("link not found")
	ErrLinkAccessDenied    = errors.New("link access denied")
	ErrInvalidDisplayOrder = errors.New("link ids must cover the user's links exactly once")

	// Short link errors
	ErrShortLinkNotFound  = errors.New("short link not found")
	ErrShortLinkExpired   = errors.New("short link has expired")
	ErrInvalidShortCode   = errors.New("short code must be 4-32 letters, digits, underscore or hyphen")
	ErrShortCodeTaken     = errors.New("short code is already taken")
	ErrShortCodeExhausted = errors.New("could not allocate a unique short code")

	// Leaderboard errors
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsInvalidEmail(err error) bool {
	return errors.Is(err, ErrInvalidEmail)
}

func IsInvalidUsername(err error) bool {
	return errors.Is(err, ErrInvalidUsername)
}

func IsWeakPassword(err error) bool {
	return errors.Is(err, ErrWeakPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrSessionInvalid)
}

func IsProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsLinkAccessDenied(err error) bool {
	return errors.Is(err, ErrLinkAccessDenied)
}

func IsInvalidDisplayOrder(err error) bool {
	return errors.Is(err, ErrInvalidDisplayOrder)
}

func IsShortLinkNotFound(err error) bool {
	return errors.Is(err, ErrShortLinkNotFound)
}

func IsShortLinkExpired(err error) bool {
	return errors.Is(err, ErrShortLinkExpired)
}

func IsInvalidShortCode(err error) bool {
	return errors.Is(err, ErrInvalidShortCode)
}

func IsShortCodeTaken(err error) bool {
	return errors.Is(err, ErrShortCodeTaken)
}

func IsShortCodeExhausted(err error) bool {
	return errors.Is(err, ErrShortCodeExhausted)
}

func IsInvalidLimit(err error) bool {
	return errors.Is(err, ErrInvalidLimit)
}
