package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
	"github.com/linkgrove/linkgrove/utils"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		userRepo := repository.NewUserRepository(testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("LookupsNormalizeCase", func(t *testing.T) {
			byEmail, err := userRepo.ByEmail(context.Background(), "  "+user.Email+" ")
			require.NoError(t, err)
			require.NotNil(t, byEmail)
			assert.Equal(t, user.ID, byEmail.ID)

			byUsername, err := userRepo.ByUsername(context.Background(), user.Username)
			require.NoError(t, err)
			require.NotNil(t, byUsername)
			assert.Equal(t, user.ID, byUsername.ID)
		})

		t.Run("MissingRowsAreNilNotError", func(t *testing.T) {
			missing, err := userRepo.ByEmail(context.Background(), "nobody@example.com")
			require.NoError(t, err)
			assert.Nil(t, missing)

			missing, err = userRepo.ByID(context.Background(), 999999)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("CountAndExists", func(t *testing.T) {
			exists, err := userRepo.Exists(context.Background(), models.UserFilter{Username: &user.Username})
			require.NoError(t, err)
			assert.True(t, exists)

			ghost := "no_such_user"
			exists, err = userRepo.Exists(context.Background(), models.UserFilter{Username: &ghost})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestUserLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkRepo := repository.NewUserLinkRepository(testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("MaxDisplayOrderStartsAtZero", func(t *testing.T) {
			max, err := linkRepo.MaxDisplayOrder(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Zero(t, max)
		})

		t.Run("ListRespectsActiveOnly", func(t *testing.T) {
			links, err := fixtures.CreateTestLinks(user.ID, 3)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(links[1]).Update("is_active", false).Error)

			all, err := linkRepo.ListByUser(context.Background(), user.ID, false)
			require.NoError(t, err)
			assert.Len(t, all, 3)

			active, err := linkRepo.ListByUser(context.Background(), user.ID, true)
			require.NoError(t, err)
			assert.Len(t, active, 2)

			max, err := linkRepo.MaxDisplayOrder(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, max)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestUserStatsRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		statsRepo := repository.NewUserStatsRepository(testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("CountersFeedTheScore", func(t *testing.T) {
			require.NoError(t, statsRepo.AddProfileView(context.Background(), user.ID))
			require.NoError(t, statsRepo.AddLinkClick(context.Background(), user.ID))
			require.NoError(t, statsRepo.AddFollowers(context.Background(), user.ID, 2))

			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.ProfileViews)
			assert.Equal(t, int64(1), stats.TotalLinkClicks)
			assert.Equal(t, int64(2), stats.Followers)

			want := int64(utils.ScorePerProfileView + utils.ScorePerLinkClick + 2*utils.ScorePerFollower)
			assert.Equal(t, want, stats.Score)
		})

		t.Run("NegativeFollowerDelta", func(t *testing.T) {
			before, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)

			require.NoError(t, statsRepo.AddFollowers(context.Background(), user.ID, -1))

			after, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Followers-1, after.Followers)
			assert.Equal(t, before.Score-utils.ScorePerFollower, after.Score)
		})

		t.Run("BumpWithoutRowFails", func(t *testing.T) {
			err := statsRepo.AddProfileView(context.Background(), 999999)
			require.Error(t, err)
		})

		return nil
	})

	require.NoError(t, err)
}
