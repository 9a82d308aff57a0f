package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
)

func TestLeaderboard(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		statsRepo := repository.NewUserStatsRepository(testDB.DB)

		// nil cache client: every call goes straight to the database
		leaderboardFlow := businessflow.NewLeaderboardFlow(statsRepo, nil)

		setScore := func(userID uint, score int64) {
			err := testDB.DB.Model(&models.UserStats{}).
				Where("user_id = ?", userID).
				Update("score", score).Error
			require.NoError(t, err)
		}

		low, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		high, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		tiedA, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		tiedB, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		setScore(low.ID, 5)
		setScore(high.ID, 500)
		setScore(tiedA.ID, 50)
		setScore(tiedB.ID, 50)

		t.Run("OrderedByScoreThenUserID", func(t *testing.T) {
			result, err := leaderboardFlow.Top(context.Background(), 10)
			require.NoError(t, err)
			require.Len(t, result.Entries, 4)
			assert.False(t, result.Cached)

			assert.Equal(t, high.Username, result.Entries[0].Username)
			// Ties break toward the older account
			assert.Equal(t, tiedA.Username, result.Entries[1].Username)
			assert.Equal(t, tiedB.Username, result.Entries[2].Username)
			assert.Equal(t, low.Username, result.Entries[3].Username)

			for i, entry := range result.Entries {
				assert.Equal(t, i+1, entry.Rank)
			}
		})

		t.Run("LimitTruncates", func(t *testing.T) {
			result, err := leaderboardFlow.Top(context.Background(), 2)
			require.NoError(t, err)
			require.Len(t, result.Entries, 2)
			assert.Equal(t, high.Username, result.Entries[0].Username)
		})

		t.Run("ZeroLimitUsesDefault", func(t *testing.T) {
			result, err := leaderboardFlow.Top(context.Background(), 0)
			require.NoError(t, err)
			assert.Len(t, result.Entries, 4)
		})

		t.Run("PrivateProfilesAreNotRanked", func(t *testing.T) {
			hidden, err := fixtures.CreatePrivateTestUser()
			require.NoError(t, err)
			setScore(hidden.ID, 9999)

			result, err := leaderboardFlow.Top(context.Background(), 10)
			require.NoError(t, err)
			require.Len(t, result.Entries, 4)
			assert.NotEqual(t, hidden.Username, result.Entries[0].Username)
		})

		t.Run("OversizedLimitRejected", func(t *testing.T) {
			_, err := leaderboardFlow.Top(context.Background(), businessflow.MaxLeaderboardLimit+1)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidLimit(err))
		})

		return nil
	})

	require.NoError(t, err)
}
