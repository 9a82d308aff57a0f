// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/linkgrove/linkgrove/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	UpdateLastActive(ctx context.Context, userID uint) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateDisplayName(ctx context.Context, userID uint, displayName string) error
}

// UserSessionRepository defines operations for opaque sessions.
// Sessions are deleted, never soft-expired: sign-out and lazy cleanup both
// remove rows so a token can never be observed twice as valid after removal.
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	ByToken(ctx context.Context, token string) (*models.UserSession, error)
	TouchLastAccessed(ctx context.Context, sessionID uint) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByID(ctx context.Context, sessionID uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProfileRepository defines operations for user profiles
type ProfileRepository interface {
	Repository[models.Profile, models.ProfileFilter]
	ByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// UserStatsRepository defines operations for per-user counters and the score
type UserStatsRepository interface {
	Repository[models.UserStats, models.UserStatsFilter]
	ByUserID(ctx context.Context, userID uint) (*models.UserStats, error)
	AddProfileView(ctx context.Context, userID uint) error
	AddLinkClick(ctx context.Context, userID uint) error
	AddFollowers(ctx context.Context, userID uint, delta int64) error
	TopByScore(ctx context.Context, limit int) ([]*models.UserStats, error)
}

// UserLinkRepository defines operations for bio links
type UserLinkRepository interface {
	Repository[models.UserLink, models.UserLinkFilter]
	ListByUser(ctx context.Context, userID uint, activeOnly bool) ([]*models.UserLink, error)
	Update(ctx context.Context, link *models.UserLink) error
	Delete(ctx context.Context, linkID uint) error
	IncrementClicks(ctx context.Context, linkID uint) error
	MaxDisplayOrder(ctx context.Context, userID uint) (int, error)
	SetDisplayOrder(ctx context.Context, linkID uint, order int) error
}

// ShortLinkRepository defines operations for short links
type ShortLinkRepository interface {
	Repository[models.ShortLink, models.ShortLinkFilter]
	ByCode(ctx context.Context, code string) (*models.ShortLink, error)
	IncrementHits(ctx context.Context, shortLinkID uint) error
	ListByUser(ctx context.Context, userID uint) ([]*models.ShortLink, error)
}
