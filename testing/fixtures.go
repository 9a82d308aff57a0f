// Package testing provides test utilities and database setup for testing the platform
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a user with its profile and stats rows, the way
// signup does. The password is always "TestPass123!".
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%08d", mrand.Intn(100000000))

	user := &models.User{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("user%s@example.com", suffix),
		Username:     fmt.Sprintf("user%s", suffix),
		PasswordHash: string(hashedPassword),
		DisplayName:  "Test User",
		Role:         models.RoleUser,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	profile := &models.Profile{
		UserID:      user.ID,
		AccentColor: models.DefaultAccentColor,
		IsPublic:    utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test profile: %w", err)
	}

	stats := &models.UserStats{
		UserID: user.ID,
	}
	if err := tf.DB.DB.Create(stats).Error; err != nil {
		return nil, fmt.Errorf("failed to create test stats: %w", err)
	}

	user.Profile = profile
	user.Stats = stats
	return user, nil
}

// CreatePrivateTestUser creates a user whose profile is not public
func (tf *TestFixtures) CreatePrivateTestUser() (*models.User, error) {
	user, err := tf.CreateTestUser()
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Model(user.Profile).Update("is_public", false).Error; err != nil {
		return nil, fmt.Errorf("failed to mark profile private: %w", err)
	}
	user.Profile.IsPublic = utils.ToPtr(false)
	return user, nil
}

// GenerateSecureToken returns a random token the size sessions use
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates a session for the user, valid for the full TTL
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	token, err := GenerateSecureToken(utils.SessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID:  uuid.New(),
		UserID:         userID,
		Token:          token,
		IPAddress:      &ipAddress,
		UserAgent:      &userAgent,
		CreatedAt:      utils.UTCNow(),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNowAdd(utils.SessionTTL),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateExpiredSession creates a session whose expiry is already in the past
func (tf *TestFixtures) CreateExpiredSession(userID uint) (*models.UserSession, error) {
	session, err := tf.CreateTestSession(userID)
	if err != nil {
		return nil, err
	}
	expired := utils.UTCNowAdd(-utils.SessionTTL)
	if err := tf.DB.DB.Model(session).Update("expires_at", expired).Error; err != nil {
		return nil, fmt.Errorf("failed to expire session: %w", err)
	}
	session.ExpiresAt = expired
	return session, nil
}

// CreateTestLink creates an active link for the user at the given display order
func (tf *TestFixtures) CreateTestLink(userID uint, displayOrder int) (*models.UserLink, error) {
	link := &models.UserLink{
		UserID:       userID,
		Title:        fmt.Sprintf("Link %d", displayOrder),
		URL:          fmt.Sprintf("https://example.com/%d", displayOrder),
		DisplayOrder: displayOrder,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}

	return link, nil
}

// CreateTestLinks creates count sequential links for the user
func (tf *TestFixtures) CreateTestLinks(userID uint, count int) ([]*models.UserLink, error) {
	var links []*models.UserLink
	for i := 1; i <= count; i++ {
		link, err := tf.CreateTestLink(userID, i)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// CreateTestShortLink creates a short link, optionally owned by a user
func (tf *TestFixtures) CreateTestShortLink(userID *uint, code string) (*models.ShortLink, error) {
	shortLink := &models.ShortLink{
		Code:      code,
		TargetURL: "https://example.com/target",
		UserID:    userID,
	}

	if err := tf.DB.DB.Create(shortLink).Error; err != nil {
		return nil, fmt.Errorf("failed to create test short link: %w", err)
	}

	return shortLink, nil
}
