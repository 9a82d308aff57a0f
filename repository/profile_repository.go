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

// ProfileRepositoryImpl implements ProfileRepository interface
type ProfileRepositoryImpl struct {
	*BaseRepository[models.Profile, models.ProfileFilter]
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Profile, models.ProfileFilter](db),
	}
}

// ByUserID retrieves a user's profile
func (r *ProfileRepositoryImpl) ByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	db := r.getDB(ctx)

	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile by user: %w", err)
	}

	return &profile, nil
}

// Update persists changes to an existing profile row
func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *models.Profile) error {
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

	profile.UpdatedAt = utils.UTCNow()
	err = db.Save(profile).Error
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

func (r *ProfileRepositoryImpl) applyFilter(db *gorm.DB, f models.ProfileFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.IsPublic != nil {
		db = db.Where("is_public = ?", *f.IsPublic)
	}
	return db
}

func (r *ProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.ProfileFilter, orderBy string, limit, offset int) ([]*models.Profile, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Profile{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Profile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProfileRepositoryImpl) Count(ctx context.Context, filter models.ProfileFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Profile{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProfileRepositoryImpl) Exists(ctx context.Context, filter models.ProfileFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
