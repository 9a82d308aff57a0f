package tests

import (
	"strings"
	"testing"

	"github.com/linkgrove/linkgrove/app/services"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService(t *testing.T) {
	// MinCost keeps the test fast; production cost comes from config
	passwordService := services.NewPasswordService(bcrypt.MinCost)

	t.Run("HashAndVerify", func(t *testing.T) {
		hash, err := passwordService.Hash("SecurePass123!")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "SecurePass123!", hash)

		assert.True(t, passwordService.Verify(hash, "SecurePass123!"))
		assert.False(t, passwordService.Verify(hash, "WrongPass123!"))
	})

	t.Run("HashesAreSalted", func(t *testing.T) {
		first, err := passwordService.Hash("SecurePass123!")
		require.NoError(t, err)
		second, err := passwordService.Hash("SecurePass123!")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("RejectsOverlongPassword", func(t *testing.T) {
		// bcrypt caps input at 72 bytes
		_, err := passwordService.Hash(strings.Repeat("a", 73))
		require.Error(t, err)
	})

	t.Run("DummyCompareNeverPanics", func(t *testing.T) {
		passwordService.DummyCompare()
	})

	t.Run("InvalidCostFallsBackToDefault", func(t *testing.T) {
		svc := services.NewPasswordService(99)
		hash, err := svc.Hash("SecurePass123!")
		require.NoError(t, err)
		assert.True(t, svc.Verify(hash, "SecurePass123!"))
	})
}

func TestTokenService(t *testing.T) {
	tokenService := services.NewTokenService()

	t.Run("SessionTokenLengthAndUniqueness", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := tokenService.GenerateSessionToken()
			require.NoError(t, err)

			// 32 raw bytes encode to 43 unpadded base64url characters
			assert.Len(t, token, 43)
			assert.False(t, strings.ContainsAny(token, "+/="))
			assert.False(t, seen[token], "duplicate session token generated")
			seen[token] = true
		}
	})

	t.Run("ShortCodeCharsetAndLength", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code, err := tokenService.GenerateShortCode()
			require.NoError(t, err)

			assert.Len(t, code, utils.ShortCodeLength)
			for _, r := range code {
				isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
				assert.True(t, isAlnum, "unexpected character %q in short code %s", r, code)
			}
		}
	})
}

func TestReportService(t *testing.T) {
	reportService := services.NewReportService()

	user := &models.User{Username: "grovekeeper"}
	stats := &models.UserStats{ProfileViews: 3, TotalLinkClicks: 7, Followers: 1, Score: 48}
	links := []*models.UserLink{
		{ID: 1, Title: "Blog", URL: "https://example.com/blog", DisplayOrder: 1, IsActive: utils.ToPtr(true), Clicks: 5},
		{ID: 2, Title: "Shop", URL: "https://example.com/shop", DisplayOrder: 2, IsActive: utils.ToPtr(false), Clicks: 2},
	}

	filename, data, err := reportService.BuildClickReport(user, stats, links)
	require.NoError(t, err)
	assert.Equal(t, "grovekeeper_click_report.xlsx", filename)
	assert.NotEmpty(t, data)

	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
