// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// UserLinkRepositoryImpl implements UserLinkRepository interface
type UserLinkRepositoryImpl struct {
	*BaseRepository[models.UserLink, models.UserLinkFilter]
}

// NewUserLinkRepository creates a new user link repository
func NewUserLinkRepository(db *gorm.DB) UserLinkRepository {
	return &UserLinkRepositoryImpl{
		BaseRepository: NewBaseRepository[models.UserLink, models.UserLinkFilter](db),
	}
}

// ListByUser returns a user's links ordered by display order
func (r *UserLinkRepositoryImpl) ListByUser(ctx context.Context, userID uint, activeOnly bool) ([]*models.UserLink, error) {
	filter := models.UserLinkFilter{UserID: &userID}
	if activeOnly {
		filter.IsActive = utils.ToPtr(true)
	}

	rows, err := r.ByFilter(ctx, filter, "display_order ASC, id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list links by user: %w", err)
	}

	return rows, nil
}

// Update persists changes to an existing link row
func (r *UserLinkRepositoryImpl) Update(ctx context.Context, link *models.UserLink) error {
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

	link.UpdatedAt = utils.UTCNow()
	err = db.Save(link).Error
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	return nil
}

// Delete removes a link row
func (r *UserLinkRepositoryImpl) Delete(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)

	err := db.Delete(&models.UserLink{}, linkID).Error
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	return nil
}

// IncrementClicks bumps the link's click counter with a relative update so
// concurrent clicks are never lost
func (r *UserLinkRepositoryImpl) IncrementClicks(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)

	res := db.Model(&models.UserLink{}).
		Where("id = ?", linkID).
		Updates(map[string]any{
			"clicks":     gorm.Expr("clicks + 1"),
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to increment link clicks: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no link row %d", linkID)
	}

	return nil
}

// MaxDisplayOrder returns the highest display order among a user's links,
// zero when the user has none
func (r *UserLinkRepositoryImpl) MaxDisplayOrder(ctx context.Context, userID uint) (int, error) {
	db := r.getDB(ctx)

	var max sql.NullInt64
	err := db.Model(&models.UserLink{}).
		Where("user_id = ?", userID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max display order: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}

	return int(max.Int64), nil
}

// SetDisplayOrder moves a single link to the given position
func (r *UserLinkRepositoryImpl) SetDisplayOrder(ctx context.Context, linkID uint, order int) error {
	db := r.getDB(ctx)

	err := db.Model(&models.UserLink{}).
		Where("id = ?", linkID).
		Updates(map[string]any{
			"display_order": order,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set display order: %w", err)
	}

	return nil
}

func (r *UserLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.UserLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	return db
}

func (r *UserLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.UserLinkFilter, orderBy string, limit, offset int) ([]*models.UserLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UserLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserLinkRepositoryImpl) Count(ctx context.Context, filter models.UserLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserLinkRepositoryImpl) Exists(ctx context.Context, filter models.UserLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
