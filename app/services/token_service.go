// Package services provides external service integrations and technical concerns like password hashing and tokens
package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/linkgrove/linkgrove/utils"
)

// shortCodeCharset deliberately mixes cases; codes are matched case-sensitively.
const shortCodeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenService generates opaque session tokens and short link codes.
// Session tokens carry no claims; they are random handles whose meaning
// lives entirely in the sessions table.
type TokenService interface {
	GenerateSessionToken() (string, error)
	GenerateShortCode() (string, error)
}

// TokenServiceImpl implements TokenService using crypto/rand
type TokenServiceImpl struct {
	tokenBytes      int
	shortCodeLength int
}

// NewTokenService creates a new token service
func NewTokenService() TokenService {
	return &TokenServiceImpl{
		tokenBytes:      utils.SessionTokenBytes,
		shortCodeLength: utils.ShortCodeLength,
	}
}

// GenerateSessionToken returns a URL-safe base64 encoding of fresh random
// bytes. 32 bytes of entropy makes guessing infeasible.
func (s *TokenServiceImpl) GenerateSessionToken() (string, error) {
	buf := make([]byte, s.tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateShortCode returns a random alphanumeric code for the URL shortener
func (s *TokenServiceImpl) GenerateShortCode() (string, error) {
	buf := make([]byte, s.shortCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate short code: %w", err)
	}

	code := make([]byte, s.shortCodeLength)
	for i, b := range buf {
		code[i] = shortCodeCharset[int(b)%len(shortCodeCharset)]
	}

	return string(code), nil
}
