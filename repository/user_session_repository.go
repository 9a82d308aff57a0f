// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// UserSessionRepositoryImpl implements UserSessionRepository interface
type UserSessionRepositoryImpl struct {
	*BaseRepository[models.UserSession, models.UserSessionFilter]
}

// NewUserSessionRepository creates a new user session repository
func NewUserSessionRepository(db *gorm.DB) UserSessionRepository {
	return &UserSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.UserSession, models.UserSessionFilter](db),
	}
}

// ByToken retrieves a session by its opaque token. Expired rows are returned
// as-is; callers decide whether to delete them.
func (r *UserSessionRepositoryImpl) ByToken(ctx context.Context, token string) (*models.UserSession, error) {
	db := r.getDB(ctx)

	var session models.UserSession
	err := db.Where("token = ?", token).
		Preload("User").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// TouchLastAccessed stamps the session's last access time
func (r *UserSessionRepositoryImpl) TouchLastAccessed(ctx context.Context, sessionID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.UserSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", utils.UTCNow()).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// DeleteByToken removes the session with the given token. Deleting a token
// that does not exist is not an error, so sign-out stays idempotent.
func (r *UserSessionRepositoryImpl) DeleteByToken(ctx context.Context, token string) error {
	db := r.getDB(ctx)

	err := db.Where("token = ?", token).Delete(&models.UserSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session by token: %w", err)
	}

	return nil
}

// DeleteByID removes a single session row
func (r *UserSessionRepositoryImpl) DeleteByID(ctx context.Context, sessionID uint) error {
	db := r.getDB(ctx)

	err := db.Delete(&models.UserSession{}, sessionID).Error
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every session belonging to a user
func (r *UserSessionRepositoryImpl) DeleteAllForUser(ctx context.Context, userID uint) error {
	db := r.getDB(ctx)

	err := db.Where("user_id = ?", userID).Delete(&models.UserSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how many
func (r *UserSessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	res := db.Where("expires_at <= ?", utils.UTCNow()).Delete(&models.UserSession{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}

	return res.RowsAffected, nil
}

func (r *UserSessionRepositoryImpl) applyFilter(db *gorm.DB, f models.UserSessionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *f.CorrelationID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	if f.ExpiresAfter != nil {
		db = db.Where("expires_at >= ?", *f.ExpiresAfter)
	}
	if f.ExpiresBefore != nil {
		db = db.Where("expires_at < ?", *f.ExpiresBefore)
	}
	if f.IsExpired != nil {
		if *f.IsExpired {
			db = db.Where("expires_at <= ?", utils.UTCNow())
		} else {
			db = db.Where("expires_at > ?", utils.UTCNow())
		}
	}
	return db
}

func (r *UserSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.UserSessionFilter, orderBy string, limit, offset int) ([]*models.UserSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserSession{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UserSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserSessionRepositoryImpl) Count(ctx context.Context, filter models.UserSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserSession{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserSessionRepositoryImpl) Exists(ctx context.Context, filter models.UserSessionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
