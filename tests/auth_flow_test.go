package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	testingutil "github.com/linkgrove/linkgrove/testing"
	"github.com/linkgrove/linkgrove/utils"
)

func newAuthFlow(testDB *testingutil.TestDB) (businessflow.AuthFlow, repository.UserRepository, repository.UserSessionRepository) {
	userRepo := repository.NewUserRepository(testDB.DB)
	sessionRepo := repository.NewUserSessionRepository(testDB.DB)
	profileRepo := repository.NewProfileRepository(testDB.DB)
	statsRepo := repository.NewUserStatsRepository(testDB.DB)

	authFlow := businessflow.NewAuthFlow(
		userRepo,
		sessionRepo,
		profileRepo,
		statsRepo,
		services.NewPasswordService(bcrypt.MinCost),
		services.NewTokenService(),
		testDB.DB,
	)

	return authFlow, userRepo, sessionRepo
}

func signupRequest(email, username string) *dto.SignupRequest {
	return &dto.SignupRequest{
		Email:           email,
		Username:        username,
		DisplayName:     "Test User",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	}
}

func TestSignup(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		authFlow, userRepo, _ := newAuthFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulSignup", func(t *testing.T) {
			result, token, err := authFlow.Signup(context.Background(), signupRequest("Alice@Example.com", "Alice"), metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, token)

			// Email and username are stored lowercased
			assert.Equal(t, "alice@example.com", result.User.Email)
			assert.Equal(t, "alice", result.User.Username)
			assert.Equal(t, models.RoleUser, result.User.Role)
			assert.True(t, utils.IsTrue(result.User.IsActive))

			// Profile and stats rows exist from the start
			user, err := userRepo.ByEmail(context.Background(), "alice@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)

			profileRepo := repository.NewProfileRepository(testDB.DB)
			profile, err := profileRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			require.NotNil(t, profile)
			assert.Equal(t, models.DefaultAccentColor, profile.AccentColor)
			assert.True(t, utils.IsTrue(profile.IsPublic))

			statsRepo := repository.NewUserStatsRepository(testDB.DB)
			stats, err := statsRepo.ByUserID(context.Background(), user.ID)
			require.NoError(t, err)
			require.NotNil(t, stats)
			assert.Zero(t, stats.Score)

			// The first session is usable immediately
			session, err := authFlow.ValidateSession(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, session.UserID)
		})

		t.Run("DuplicateEmailRollsBackEverything", func(t *testing.T) {
			_, _, err := authFlow.Signup(context.Background(), signupRequest("dup@example.com", "duporig"), metadata)
			require.NoError(t, err)

			_, token, err := authFlow.Signup(context.Background(), signupRequest("DUP@example.com", "dupnew"), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
			assert.Empty(t, token)

			// The losing signup left no user behind
			user, err := userRepo.ByUsername(context.Background(), "dupnew")
			require.NoError(t, err)
			assert.Nil(t, user)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			_, _, err := authFlow.Signup(context.Background(), signupRequest("taken@example.com", "takenname"), metadata)
			require.NoError(t, err)

			_, _, err = authFlow.Signup(context.Background(), signupRequest("other@example.com", "TakenName"), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		t.Run("ConcurrentDuplicateSignups", func(t *testing.T) {
			// Both goroutines can pass the pre-checks; the loser must still
			// come back as a conflict, never an infrastructure error.
			const racers = 2
			var wg sync.WaitGroup
			errs := make(chan error, racers)
			for i := 0; i < racers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _, err := authFlow.Signup(context.Background(), signupRequest("race@example.com", fmt.Sprintf("racer%d", i)), metadata)
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			var failures int
			for err := range errs {
				if err != nil {
					failures++
					assert.True(t, businessflow.IsEmailAlreadyExists(err))
				}
			}
			assert.Equal(t, 1, failures)

			// Exactly one account was created
			user, err := userRepo.ByEmail(context.Background(), "race@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
		})

		t.Run("InvalidUsernameRejected", func(t *testing.T) {
			for _, username := range []string{"ab", "has space", "dots.forbidden", "wāy"} {
				_, _, err := authFlow.Signup(context.Background(), signupRequest("u@example.com", username), metadata)
				require.Error(t, err, "username %q should be rejected", username)
				assert.True(t, businessflow.IsInvalidUsername(err))
			}
		})

		t.Run("WeakPasswordRejected", func(t *testing.T) {
			for _, password := range []string{"Ab1", "alllower1", "ALLUPPER1", "NoDigitsHere"} {
				req := signupRequest("weak@example.com", "weakuser")
				req.Password = password
				req.ConfirmPassword = password

				_, _, err := authFlow.Signup(context.Background(), req, metadata)
				require.Error(t, err, "password %q should be rejected", password)
				assert.True(t, businessflow.IsWeakPassword(err))
			}
		})

		t.Run("PasswordMismatchRejected", func(t *testing.T) {
			req := signupRequest("pw@example.com", "pwuser")
			req.ConfirmPassword = "Different123!"

			_, _, err := authFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsWeakPassword(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		authFlow, userRepo, _ := newAuthFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		_, _, err := authFlow.Signup(context.Background(), signupRequest("bob@example.com", "bob"), metadata)
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			result, token, err := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "Bob@Example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, token)
			assert.Equal(t, "bob", result.User.Username)

			// Login refreshes the activity timestamp
			user, err := userRepo.ByEmail(context.Background(), "bob@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotNil(t, user.LastActiveAt)
		})

		t.Run("WrongPasswordAndUnknownEmailAreIdentical", func(t *testing.T) {
			_, _, errWrongPass := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "bob@example.com",
				Password: "WrongPass123!",
			}, metadata)
			require.Error(t, errWrongPass)
			assert.True(t, businessflow.IsInvalidCredentials(errWrongPass))

			_, _, errUnknown := authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.Error(t, errUnknown)
			assert.True(t, businessflow.IsInvalidCredentials(errUnknown))
		})

		t.Run("InactiveAccountRejected", func(t *testing.T) {
			user, err := userRepo.ByEmail(context.Background(), "bob@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)

			require.NoError(t, testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
			defer func() {
				require.NoError(t, testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", true).Error)
			}()

			_, _, err = authFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    "bob@example.com",
				Password: "SecurePass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})

	require.NoError(t, err)
}

func TestLogoutAndSessionLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		authFlow, _, sessionRepo := newAuthFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("LogoutIsIdempotent", func(t *testing.T) {
			_, token, err := authFlow.Signup(context.Background(), signupRequest("carol@example.com", "carol"), metadata)
			require.NoError(t, err)

			_, err = authFlow.Logout(context.Background(), token)
			require.NoError(t, err)

			// The token is dead now
			_, err = authFlow.ValidateSession(context.Background(), token)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionInvalid(err))

			// Signing out again, or with garbage, still succeeds
			_, err = authFlow.Logout(context.Background(), token)
			require.NoError(t, err)
			_, err = authFlow.Logout(context.Background(), "never-issued")
			require.NoError(t, err)
			_, err = authFlow.Logout(context.Background(), "")
			require.NoError(t, err)
		})

		t.Run("ExpiredSessionIsDeletedOnValidation", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateExpiredSession(user.ID)
			require.NoError(t, err)

			_, err = authFlow.ValidateSession(context.Background(), session.Token)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionInvalid(err))

			// The stale row was removed, not just rejected
			stored, err := sessionRepo.ByToken(context.Background(), session.Token)
			require.NoError(t, err)
			assert.Nil(t, stored)
		})

		t.Run("InactiveUserSessionRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

			_, err = authFlow.ValidateSession(context.Background(), session.Token)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionInvalid(err))
		})

		t.Run("SweepRemovesOnlyExpiredSessions", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			live, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateExpiredSession(user.ID)
			require.NoError(t, err)

			deleted, err := sessionRepo.DeleteExpired(context.Background())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, deleted, int64(1))

			stored, err := sessionRepo.ByToken(context.Background(), live.Token)
			require.NoError(t, err)
			assert.NotNil(t, stored)
		})

		return nil
	})

	require.NoError(t, err)
}
