// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// AuthFlow handles registration, sign-in, sign-out and session validation.
// Signup and Login return the raw session token alongside the response so
// the handler can set the cookie; the token never appears in response bodies.
type AuthFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, string, error)
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, string, error)
	Logout(ctx context.Context, token string) (*dto.LogoutResponse, error)
	ValidateSession(ctx context.Context, token string) (*models.UserSession, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo    repository.UserRepository
	sessionRepo repository.UserSessionRepository
	profileRepo repository.ProfileRepository
	statsRepo   repository.UserStatsRepository
	passwordSvc services.PasswordService
	tokenSvc    services.TokenService
	db          *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	profileRepo repository.ProfileRepository,
	statsRepo repository.UserStatsRepository,
	passwordSvc services.PasswordService,
	tokenSvc services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		db:          db,
	}
}

// Signup registers a new account. User, profile, stats and the first session
// are created in one transaction; a duplicate email or username rolls back
// everything.
func (af *AuthFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, string, error) {
	if err := af.validateSignupRequest(request); err != nil {
		return nil, "", NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	var resp *dto.SignupResponse
	var token string

	err := repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		existing, err := af.userRepo.ByEmail(txCtx, request.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		existing, err = af.userRepo.ByUsername(txCtx, request.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUsernameAlreadyExists
		}

		hash, err := af.passwordSvc.Hash(request.Password)
		if err != nil {
			return ErrWeakPassword
		}

		user := &models.User{
			UUID:         uuid.New(),
			Email:        models.NormalizeEmail(request.Email),
			Username:     models.NormalizeUsername(request.Username),
			DisplayName:  strings.TrimSpace(request.DisplayName),
			PasswordHash: hash,
			Role:         models.RoleUser,
			IsActive:     utils.ToPtr(true),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		}
		if err := af.userRepo.Save(txCtx, user); err != nil {
			return translateUserConflict(err)
		}

		profile := &models.Profile{
			UserID:      user.ID,
			AccentColor: models.DefaultAccentColor,
			IsPublic:    utils.ToPtr(true),
			CreatedAt:   utils.UTCNow(),
			UpdatedAt:   utils.UTCNow(),
		}
		if err := af.profileRepo.Save(txCtx, profile); err != nil {
			return err
		}

		stats := &models.UserStats{
			UserID:    user.ID,
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}
		if err := af.statsRepo.Save(txCtx, stats); err != nil {
			return err
		}

		session, rawToken, err := af.createSession(txCtx, user.ID, metadata)
		if err != nil {
			return err
		}

		token = rawToken
		resp = &dto.SignupResponse{
			User:    ToUserDTO(*user),
			Session: ToSessionDTO(*session),
		}
		return nil
	})
	if err != nil {
		return nil, "", NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	return resp, token, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password take the same code path cost and return the same error.
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, string, error) {
	if request.Email == "" || request.Password == "" {
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	user, err := af.userRepo.ByEmail(ctx, request.Email)
	if err != nil {
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}
	if user == nil {
		// Burn a hash comparison so the miss costs as much as a real check
		af.passwordSvc.DummyCompare()
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	if !af.passwordSvc.Verify(user.PasswordHash, request.Password) {
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	if !utils.IsTrue(user.IsActive) {
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", ErrAccountInactive)
	}

	var resp *dto.LoginResponse
	var token string

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		session, rawToken, err := af.createSession(txCtx, user.ID, metadata)
		if err != nil {
			return err
		}
		if err := af.userRepo.UpdateLastActive(txCtx, user.ID); err != nil {
			return err
		}

		token = rawToken
		resp = &dto.LoginResponse{
			User:    ToUserDTO(*user),
			Session: ToSessionDTO(*session),
		}
		return nil
	})
	if err != nil {
		return nil, "", NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return resp, token, nil
}

// Logout removes the session for the given token. Unknown tokens are a
// no-op, so repeated sign-out requests always succeed.
func (af *AuthFlowImpl) Logout(ctx context.Context, token string) (*dto.LogoutResponse, error) {
	if token != "" {
		if err := af.sessionRepo.DeleteByToken(ctx, token); err != nil {
			return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
		}
	}

	return &dto.LogoutResponse{Message: "Signed out"}, nil
}

// ValidateSession resolves a token to its session and user. Expired rows are
// deleted on sight so a stale token fails permanently, not intermittently.
func (af *AuthFlowImpl) ValidateSession(ctx context.Context, token string) (*models.UserSession, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	session, err := af.sessionRepo.ByToken(ctx, token)
	if err != nil {
		return nil, NewBusinessError("SESSION_LOOKUP_FAILED", "Session lookup failed", err)
	}
	if session == nil {
		return nil, ErrSessionInvalid
	}

	if session.IsExpired() {
		_ = af.sessionRepo.DeleteByID(ctx, session.ID)
		return nil, ErrSessionInvalid
	}

	if !utils.IsTrue(session.User.IsActive) {
		return nil, ErrSessionInvalid
	}

	// Best effort; a failed touch must not block the request
	_ = af.sessionRepo.TouchLastAccessed(ctx, session.ID)

	return session, nil
}

// Private helper methods

func (af *AuthFlowImpl) createSession(ctx context.Context, userID uint, metadata *ClientMetadata) (*models.UserSession, string, error) {
	token, err := af.tokenSvc.GenerateSessionToken()
	if err != nil {
		return nil, "", err
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		UserID:         userID,
		CorrelationID:  uuid.New(),
		Token:          token,
		IPAddress:      &ipAddress,
		UserAgent:      &userAgent,
		CreatedAt:      utils.UTCNow(),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNowAdd(utils.SessionTTL),
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, "", err
	}

	return session, token, nil
}

// translateUserConflict maps unique-index violations onto the same conflict
// sentinels the pre-checks return. Two concurrent signups can both pass the
// ByEmail/ByUsername reads; the loser hits the index instead and must still
// surface as a conflict, not an infrastructure failure.
func translateUserConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uk_users_email"):
		return ErrEmailAlreadyExists
	case strings.Contains(msg, "uk_users_username"):
		return ErrUsernameAlreadyExists
	}
	return err
}

func (af *AuthFlowImpl) validateSignupRequest(request *dto.SignupRequest) error {
	if !strings.Contains(request.Email, "@") {
		return ErrInvalidEmail
	}

	username := models.NormalizeUsername(request.Username)
	if len(username) < 3 || len(username) > 30 {
		return ErrInvalidUsername
	}
	for _, r := range username {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return ErrInvalidUsername
		}
	}

	if len(request.Password) < 8 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range request.Password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	if request.Password != request.ConfirmPassword {
		return ErrWeakPassword
	}

	return nil
}
