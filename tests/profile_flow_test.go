package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/app/dto"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
	"github.com/linkgrove/linkgrove/utils"
)

func newProfileFlow(testDB *testingutil.TestDB) (businessflow.ProfileFlow, repository.UserStatsRepository) {
	statsRepo := repository.NewUserStatsRepository(testDB.DB)

	profileFlow := businessflow.NewProfileFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewProfileRepository(testDB.DB),
		statsRepo,
		repository.NewUserLinkRepository(testDB.DB),
		testDB.DB,
	)

	return profileFlow, statsRepo
}

func TestGetAndUpdateProfile(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow, _ := newProfileFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("GetProfileBundle", func(t *testing.T) {
			result, err := profileFlow.GetProfile(context.Background(), user.ID)
			require.NoError(t, err)

			assert.Equal(t, user.Username, result.User.Username)
			assert.True(t, utils.IsTrue(result.Profile.IsPublic))
			assert.Zero(t, result.Stats.Score)
		})

		t.Run("UnknownUserRejected", func(t *testing.T) {
			_, err := profileFlow.GetProfile(context.Background(), 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("PartialUpdateLeavesOtherFieldsAlone", func(t *testing.T) {
			bio := "  Plants and hyperlinks.  "
			accent := "#00AA55"
			result, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				Bio:         &bio,
				AccentColor: &accent,
			})
			require.NoError(t, err)

			assert.Equal(t, "Plants and hyperlinks.", result.Profile.Bio)
			assert.Equal(t, "#00AA55", result.Profile.AccentColor)
			// Untouched fields keep their values
			assert.Equal(t, user.DisplayName, result.User.DisplayName)
			assert.True(t, utils.IsTrue(result.Profile.IsPublic))
		})

		t.Run("DisplayNameRidesAlong", func(t *testing.T) {
			name := "New Name"
			result, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				DisplayName: &name,
			})
			require.NoError(t, err)
			assert.Equal(t, "New Name", result.User.DisplayName)
		})

		t.Run("VisibilityToggle", func(t *testing.T) {
			hidden := false
			result, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				IsPublic: &hidden,
			})
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(result.Profile.IsPublic))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestPublicProfile(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow, statsRepo := newProfileFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		_, err = fixtures.CreateTestLinks(user.ID, 2)
		require.NoError(t, err)

		// One inactive link that visitors must never see
		hiddenLink, err := fixtures.CreateTestLink(user.ID, 3)
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(hiddenLink).Update("is_active", false).Error)

		t.Run("ViewCountsAndActiveLinksOnly", func(t *testing.T) {
			result, err := profileFlow.PublicProfile(context.Background(), user.Username)
			require.NoError(t, err)

			assert.Equal(t, user.Username, result.Username)
			require.Len(t, result.Links, 2)
			for _, link := range result.Links {
				assert.NotEqual(t, hiddenLink.ID, link.ID)
			}

			// The view itself moves the counters
			assert.Equal(t, int64(1), result.Stats.ProfileViews)
			assert.Equal(t, int64(utils.ScorePerProfileView), result.Stats.Score)

			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.ProfileViews)
		})

		t.Run("PrivateAndUnknownAreIndistinguishable", func(t *testing.T) {
			private, err := fixtures.CreatePrivateTestUser()
			require.NoError(t, err)

			_, errPrivate := profileFlow.PublicProfile(context.Background(), private.Username)
			require.Error(t, errPrivate)
			assert.True(t, businessflow.IsProfileNotFound(errPrivate))

			_, errUnknown := profileFlow.PublicProfile(context.Background(), "no_such_user")
			require.Error(t, errUnknown)
			assert.True(t, businessflow.IsProfileNotFound(errUnknown))

			// A private profile's view counter never moves
			stats, err := statsRepo.ByUserID(context.Background(), private.ID)
			require.NoError(t, err)
			assert.Zero(t, stats.ProfileViews)
		})

		return nil
	})

	require.NoError(t, err)
}
