package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// ShortLinkRepositoryImpl implements ShortLinkRepository
type ShortLinkRepositoryImpl struct {
	*BaseRepository[models.ShortLink, models.ShortLinkFilter]
}

func NewShortLinkRepository(db *gorm.DB) ShortLinkRepository {
	return &ShortLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.ShortLink, models.ShortLinkFilter](db)}
}

// ByCode retrieves a short link by its exact, case-sensitive code
func (r *ShortLinkRepositoryImpl) ByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	db := r.getDB(ctx)

	var row models.ShortLink
	err := db.Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find short link by code: %w", err)
	}

	return &row, nil
}

// IncrementHits bumps the hit counter with a relative update
func (r *ShortLinkRepositoryImpl) IncrementHits(ctx context.Context, shortLinkID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.ShortLink{}).
		Where("id = ?", shortLinkID).
		Updates(map[string]any{
			"hits":       gorm.Expr("hits + 1"),
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment short link hits: %w", err)
	}

	return nil
}

// ListByUser returns all short links created by a user, newest first
func (r *ShortLinkRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.ShortLink, error) {
	rows, err := r.ByFilter(ctx, models.ShortLinkFilter{UserID: &userID}, "id DESC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list short links by user: %w", err)
	}
	return rows, nil
}

func (r *ShortLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.ShortLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Code != nil {
		db = db.Where("code = ?", *f.Code)
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
	return db
}

func (r *ShortLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.ShortLinkFilter, orderBy string, limit, offset int) ([]*models.ShortLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ShortLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ShortLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ShortLinkRepositoryImpl) Count(ctx context.Context, filter models.ShortLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ShortLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ShortLinkRepositoryImpl) Exists(ctx context.Context, filter models.ShortLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
