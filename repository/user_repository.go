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

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByEmail retrieves a user by email (lookup is case-insensitive via normalization)
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// ByUsername retrieves a user by username (lookup is case-insensitive via normalization)
func (r *UserRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("username = ?", models.NormalizeUsername(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return &user, nil
}

// ByUUID retrieves a user by public UUID
func (r *UserRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("uuid = ?", uuid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by uuid: %w", err)
	}

	return &user, nil
}

// UpdateLastActive stamps the user's last activity time
func (r *UserRepositoryImpl) UpdateLastActive(ctx context.Context, userID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_active_at": utils.UTCNow(),
			"updated_at":     utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// UpdateDisplayName replaces the user's display name
func (r *UserRepositoryImpl) UpdateDisplayName(ctx context.Context, userID uint, displayName string) error {
	db := r.getDB(ctx)

	err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"display_name": displayName,
			"updated_at":   utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, f models.UserFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", models.NormalizeEmail(*f.Email))
	}
	if f.Username != nil {
		db = db.Where("username = ?", models.NormalizeUsername(*f.Username))
	}
	if f.Role != nil {
		db = db.Where("role = ?", *f.Role)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	if f.LastActiveAfter != nil {
		db = db.Where("last_active_at >= ?", *f.LastActiveAfter)
	}
	if f.LastActiveBefore != nil {
		db = db.Where("last_active_at < ?", *f.LastActiveBefore)
	}
	return db
}

func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
