package tests

import (
	"testing"
	"time"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", models.User{}.TableName())
	assert.Equal(t, "user_sessions", models.UserSession{}.TableName())
	assert.Equal(t, "profiles", models.Profile{}.TableName())
	assert.Equal(t, "user_stats", models.UserStats{}.TableName())
	assert.Equal(t, "user_links", models.UserLink{}.TableName())
	assert.Equal(t, "short_links", models.ShortLink{}.TableName())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", models.NormalizeEmail("  John@Example.COM "))
	assert.Equal(t, "a@b.c", models.NormalizeEmail("a@b.c"))
	assert.Equal(t, "", models.NormalizeEmail("   "))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "grovekeeper", models.NormalizeUsername("GroveKeeper"))
	assert.Equal(t, "under_score-1", models.NormalizeUsername(" Under_Score-1 "))
}

func TestUserIsOwner(t *testing.T) {
	owner := models.User{Role: models.RoleOwner}
	regular := models.User{Role: models.RoleUser}

	assert.True(t, owner.IsOwner())
	assert.False(t, regular.IsOwner())
}

func TestUserSessionIsExpired(t *testing.T) {
	live := models.UserSession{ExpiresAt: utils.UTCNowAdd(time.Hour)}
	assert.False(t, live.IsExpired())

	dead := models.UserSession{ExpiresAt: utils.UTCNowAdd(-time.Second)}
	assert.True(t, dead.IsExpired())
}

func TestShortLinkIsExpired(t *testing.T) {
	// No expiry means the link lives forever
	eternal := models.ShortLink{}
	assert.False(t, eternal.IsExpired())

	live := models.ShortLink{ExpiresAt: utils.UTCNowAddPtr(time.Hour)}
	assert.False(t, live.IsExpired())

	dead := models.ShortLink{ExpiresAt: utils.UTCNowAddPtr(-time.Minute)}
	assert.True(t, dead.IsExpired())
}
