package tests

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
	"github.com/linkgrove/linkgrove/utils"
)

func newShortLinkFlow(testDB *testingutil.TestDB) (businessflow.ShortLinkFlow, repository.ShortLinkRepository) {
	shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)

	shortLinkFlow := businessflow.NewShortLinkFlow(
		shortLinkRepo,
		services.NewTokenService(),
		testDB.DB,
	)

	return shortLinkFlow, shortLinkRepo
}

func TestCreateShortLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkFlow, _ := newShortLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("RandomCode", func(t *testing.T) {
			result, err := shortLinkFlow.CreateShortLink(context.Background(), &user.ID, &dto.CreateShortLinkRequest{
				TargetURL: "https://example.com/long/path",
			})
			require.NoError(t, err)
			assert.Len(t, result.Code, utils.ShortCodeLength)
			assert.Equal(t, "https://example.com/long/path", result.TargetURL)
			assert.Zero(t, result.Hits)
			assert.Nil(t, result.ExpiresAt)
		})

		t.Run("CustomCode", func(t *testing.T) {
			custom := "my-launch"
			result, err := shortLinkFlow.CreateShortLink(context.Background(), &user.ID, &dto.CreateShortLinkRequest{
				TargetURL:  "https://example.com/launch",
				CustomCode: &custom,
			})
			require.NoError(t, err)
			assert.Equal(t, "my-launch", result.Code)

			// The same code cannot be claimed twice
			_, err = shortLinkFlow.CreateShortLink(context.Background(), &user.ID, &dto.CreateShortLinkRequest{
				TargetURL:  "https://example.com/other",
				CustomCode: &custom,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsShortCodeTaken(err))
		})

		t.Run("InvalidCustomCodeRejected", func(t *testing.T) {
			for _, code := range []string{"abc", "has space", "dots.bad", strings.Repeat("a", 33)} {
				custom := code
				_, err := shortLinkFlow.CreateShortLink(context.Background(), &user.ID, &dto.CreateShortLinkRequest{
					TargetURL:  "https://example.com/bad",
					CustomCode: &custom,
				})
				require.Error(t, err, "code %q should be rejected", code)
				assert.True(t, businessflow.IsInvalidShortCode(err))
			}
		})

		t.Run("AnonymousCreation", func(t *testing.T) {
			result, err := shortLinkFlow.CreateShortLink(context.Background(), nil, &dto.CreateShortLinkRequest{
				TargetURL: "https://example.com/anon",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, result.Code)
		})

		t.Run("TTLSetsExpiry", func(t *testing.T) {
			ttl := int64(3600)
			result, err := shortLinkFlow.CreateShortLink(context.Background(), &user.ID, &dto.CreateShortLinkRequest{
				TargetURL:  "https://example.com/ephemeral",
				TTLSeconds: &ttl,
			})
			require.NoError(t, err)
			require.NotNil(t, result.ExpiresAt)
		})

		return nil
	})

	require.NoError(t, err)
}

func TestResolveShortLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkFlow, shortLinkRepo := newShortLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		shortLink, err := fixtures.CreateTestShortLink(&user.ID, "AbC1234")
		require.NoError(t, err)

		t.Run("ResolveBumpsHits", func(t *testing.T) {
			url, err := shortLinkFlow.Resolve(context.Background(), "AbC1234")
			require.NoError(t, err)
			assert.Equal(t, shortLink.TargetURL, url)

			stored, err := shortLinkRepo.ByCode(context.Background(), "AbC1234")
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, int64(1), stored.Hits)
		})

		t.Run("ConcurrentResolutionsAllCount", func(t *testing.T) {
			before, err := shortLinkRepo.ByCode(context.Background(), "AbC1234")
			require.NoError(t, err)
			require.NotNil(t, before)

			const resolutions = 20
			var wg sync.WaitGroup
			urls := make(chan string, resolutions)
			errs := make(chan error, resolutions)
			for i := 0; i < resolutions; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					url, err := shortLinkFlow.Resolve(context.Background(), "AbC1234")
					urls <- url
					errs <- err
				}()
			}
			wg.Wait()
			close(urls)
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}
			for url := range urls {
				assert.Equal(t, shortLink.TargetURL, url)
			}

			// No lost updates: N resolutions advance the counter by exactly N
			after, err := shortLinkRepo.ByCode(context.Background(), "AbC1234")
			require.NoError(t, err)
			assert.Equal(t, before.Hits+resolutions, after.Hits)
		})

		t.Run("MatchingIsCaseSensitive", func(t *testing.T) {
			_, err := shortLinkFlow.Resolve(context.Background(), "abc1234")
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		t.Run("UnknownCode", func(t *testing.T) {
			_, err := shortLinkFlow.Resolve(context.Background(), "zzzzzzz")
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))

			_, err = shortLinkFlow.Resolve(context.Background(), "")
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		t.Run("ExpiredCode", func(t *testing.T) {
			expired, err := fixtures.CreateTestShortLink(&user.ID, "expired1")
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Model(expired).Update("expires_at", utils.UTCNowAdd(-time.Minute)).Error)

			_, err = shortLinkFlow.Resolve(context.Background(), "expired1")
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkExpired(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestListShortLinks(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkFlow, _ := newShortLinkFlow(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		_, err = fixtures.CreateTestShortLink(&user.ID, "first11")
		require.NoError(t, err)
		_, err = fixtures.CreateTestShortLink(&user.ID, "second2")
		require.NoError(t, err)
		_, err = fixtures.CreateTestShortLink(&other.ID, "elses11")
		require.NoError(t, err)
		_, err = fixtures.CreateTestShortLink(nil, "noowner")
		require.NoError(t, err)

		result, err := shortLinkFlow.ListShortLinks(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, result.ShortLinks, 2)

		// Newest first, and only the caller's links
		assert.Equal(t, "second2", result.ShortLinks[0].Code)
		assert.Equal(t, "first11", result.ShortLinks[1].Code)

		return nil
	})

	require.NoError(t, err)
}
