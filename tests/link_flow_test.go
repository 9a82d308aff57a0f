package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
	"github.com/linkgrove/linkgrove/utils"
)

func newLinkFlow(testDB *testingutil.TestDB) (businessflow.LinkFlow, repository.UserLinkRepository, repository.UserStatsRepository) {
	linkRepo := repository.NewUserLinkRepository(testDB.DB)
	userRepo := repository.NewUserRepository(testDB.DB)
	statsRepo := repository.NewUserStatsRepository(testDB.DB)

	linkFlow := businessflow.NewLinkFlow(
		linkRepo,
		userRepo,
		statsRepo,
		services.NewReportService(),
		testDB.DB,
	)

	return linkFlow, linkRepo, statsRepo
}

func TestLinkManagement(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkFlow, linkRepo, _ := newLinkFlow(testDB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("CreateAppendsAtEnd", func(t *testing.T) {
			first, err := linkFlow.CreateLink(context.Background(), owner.ID, &dto.CreateLinkRequest{
				Title: "Blog",
				URL:   "https://example.com/blog",
			})
			require.NoError(t, err)
			assert.Equal(t, 1, first.DisplayOrder)
			assert.True(t, utils.IsTrue(first.IsActive))
			assert.Zero(t, first.Clicks)

			second, err := linkFlow.CreateLink(context.Background(), owner.ID, &dto.CreateLinkRequest{
				Title: "Shop",
				URL:   "https://example.com/shop",
			})
			require.NoError(t, err)
			assert.Equal(t, 2, second.DisplayOrder)
		})

		t.Run("UpdateIsPartialAndOwnerOnly", func(t *testing.T) {
			links, err := linkFlow.ListLinks(context.Background(), owner.ID)
			require.NoError(t, err)
			require.NotEmpty(t, links.Links)
			target := links.Links[0]

			newTitle := "Blog v2"
			updated, err := linkFlow.UpdateLink(context.Background(), owner.ID, target.ID, &dto.UpdateLinkRequest{
				Title: &newTitle,
			})
			require.NoError(t, err)
			assert.Equal(t, "Blog v2", updated.Title)
			assert.Equal(t, target.URL, updated.URL)

			// Someone else's link is access denied, not 404
			_, err = linkFlow.UpdateLink(context.Background(), stranger.ID, target.ID, &dto.UpdateLinkRequest{
				Title: &newTitle,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkAccessDenied(err))

			// A link that never existed is not found
			_, err = linkFlow.UpdateLink(context.Background(), owner.ID, 999999, &dto.UpdateLinkRequest{
				Title: &newTitle,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkNotFound(err))
		})

		t.Run("DeleteOwnerOnly", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(owner.ID, 50)
			require.NoError(t, err)

			err = linkFlow.DeleteLink(context.Background(), stranger.ID, link.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkAccessDenied(err))

			require.NoError(t, linkFlow.DeleteLink(context.Background(), owner.ID, link.ID))

			stored, err := linkRepo.ByID(context.Background(), link.ID)
			require.NoError(t, err)
			assert.Nil(t, stored)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestReorderLinks(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkFlow, _, _ := newLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		links, err := fixtures.CreateTestLinks(user.ID, 3)
		require.NoError(t, err)

		t.Run("FullPermutationApplies", func(t *testing.T) {
			result, err := linkFlow.ReorderLinks(context.Background(), user.ID, &dto.ReorderLinksRequest{
				LinkIDs: []uint{links[2].ID, links[0].ID, links[1].ID},
			})
			require.NoError(t, err)
			require.Len(t, result.Links, 3)

			assert.Equal(t, links[2].ID, result.Links[0].ID)
			assert.Equal(t, links[0].ID, result.Links[1].ID)
			assert.Equal(t, links[1].ID, result.Links[2].ID)
			assert.Equal(t, 1, result.Links[0].DisplayOrder)
			assert.Equal(t, 2, result.Links[1].DisplayOrder)
			assert.Equal(t, 3, result.Links[2].DisplayOrder)
		})

		t.Run("PartialOrDuplicatedSetRejected", func(t *testing.T) {
			// Missing one link
			_, err := linkFlow.ReorderLinks(context.Background(), user.ID, &dto.ReorderLinksRequest{
				LinkIDs: []uint{links[0].ID, links[1].ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDisplayOrder(err))

			// Same link twice
			_, err = linkFlow.ReorderLinks(context.Background(), user.ID, &dto.ReorderLinksRequest{
				LinkIDs: []uint{links[0].ID, links[0].ID, links[1].ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDisplayOrder(err))

			// A link owned by someone else
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			foreign, err := fixtures.CreateTestLink(other.ID, 1)
			require.NoError(t, err)

			_, err = linkFlow.ReorderLinks(context.Background(), user.ID, &dto.ReorderLinksRequest{
				LinkIDs: []uint{links[0].ID, links[1].ID, foreign.ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDisplayOrder(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestTrackClick(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkFlow, linkRepo, statsRepo := newLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(user.ID, 1)
		require.NoError(t, err)

		t.Run("ClickMovesBothCounters", func(t *testing.T) {
			result, err := linkFlow.TrackClick(context.Background(), link.ID)
			require.NoError(t, err)
			assert.Equal(t, link.URL, result.URL)

			stored, err := linkRepo.ByID(context.Background(), link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stored.Clicks)

			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.TotalLinkClicks)
			assert.Equal(t, int64(utils.ScorePerLinkClick), stats.Score)
		})

		t.Run("ConcurrentClicksAllLand", func(t *testing.T) {
			before, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)

			const clicks = 20
			var wg sync.WaitGroup
			errs := make(chan error, clicks)
			for i := 0; i < clicks; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := linkFlow.TrackClick(context.Background(), link.ID)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			stored, err := linkRepo.ByID(context.Background(), link.ID)
			require.NoError(t, err)

			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)

			assert.Equal(t, before.TotalLinkClicks+clicks, stats.TotalLinkClicks)
			assert.Equal(t, before.Score+clicks*utils.ScorePerLinkClick, stats.Score)
			// Per-link and aggregate counters stay in lockstep
			assert.Equal(t, stats.TotalLinkClicks, stored.Clicks)
		})

		t.Run("InactiveLinkRejected", func(t *testing.T) {
			inactive, err := fixtures.CreateTestLink(user.ID, 2)
			require.NoError(t, err)

			falseVal := false
			_, err = linkFlow.UpdateLink(context.Background(), user.ID, inactive.ID, &dto.UpdateLinkRequest{
				IsActive: &falseVal,
			})
			require.NoError(t, err)

			_, err = linkFlow.TrackClick(context.Background(), inactive.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkNotFound(err))

			// Nothing moved
			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			storedInactive, err := linkRepo.ByID(context.Background(), inactive.ID)
			require.NoError(t, err)
			assert.Zero(t, storedInactive.Clicks)
			assert.Equal(t, int64(21), stats.TotalLinkClicks) // 1 + 20 from earlier subtests
		})

		return nil
	})

	require.NoError(t, err)
}

func TestExportClickReport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkFlow, _, _ := newLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		_, err = fixtures.CreateTestLinks(user.ID, 2)
		require.NoError(t, err)

		filename, data, err := linkFlow.ExportClickReport(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username+"_click_report.xlsx", filename)
		require.NotEmpty(t, data)
		assert.Equal(t, []byte{'P', 'K'}, data[:2])

		return nil
	})

	require.NoError(t, err)
}
