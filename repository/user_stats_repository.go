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

// UserStatsRepositoryImpl implements UserStatsRepository interface.
// All counter movement goes through relative SQL updates ("x = x + n") so
// concurrent increments never lose writes and Score stays consistent with
// the counters it is derived from.
type UserStatsRepositoryImpl struct {
	*BaseRepository[models.UserStats, models.UserStatsFilter]
}

// NewUserStatsRepository creates a new user stats repository
func NewUserStatsRepository(db *gorm.DB) UserStatsRepository {
	return &UserStatsRepositoryImpl{
		BaseRepository: NewBaseRepository[models.UserStats, models.UserStatsFilter](db),
	}
}

// ByUserID retrieves a user's stats row
func (r *UserStatsRepositoryImpl) ByUserID(ctx context.Context, userID uint) (*models.UserStats, error) {
	db := r.getDB(ctx)

	var stats models.UserStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find stats by user: %w", err)
	}

	return &stats, nil
}

// AddProfileView bumps profile_views and score in a single atomic update
func (r *UserStatsRepositoryImpl) AddProfileView(ctx context.Context, userID uint) error {
	return r.bump(ctx, userID, map[string]any{
		"profile_views": gorm.Expr("profile_views + 1"),
		"score":         gorm.Expr("score + ?", utils.ScorePerProfileView),
		"updated_at":    utils.UTCNow(),
	})
}

// AddLinkClick bumps total_link_clicks and score in a single atomic update
func (r *UserStatsRepositoryImpl) AddLinkClick(ctx context.Context, userID uint) error {
	return r.bump(ctx, userID, map[string]any{
		"total_link_clicks": gorm.Expr("total_link_clicks + 1"),
		"score":             gorm.Expr("score + ?", utils.ScorePerLinkClick),
		"updated_at":        utils.UTCNow(),
	})
}

// AddFollowers moves the follower counter by delta (may be negative) and
// adjusts score accordingly
func (r *UserStatsRepositoryImpl) AddFollowers(ctx context.Context, userID uint, delta int64) error {
	return r.bump(ctx, userID, map[string]any{
		"followers":  gorm.Expr("followers + ?", delta),
		"score":      gorm.Expr("score + ?", delta*utils.ScorePerFollower),
		"updated_at": utils.UTCNow(),
	})
}

func (r *UserStatsRepositoryImpl) bump(ctx context.Context, userID uint, updates map[string]any) error {
	db := r.getDB(ctx)

	res := db.Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update stats counters: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no stats row for user %d", userID)
	}

	return nil
}

// TopByScore returns the highest-scored stats rows with users preloaded.
// Only active accounts with a public profile are ranked.
func (r *UserStatsRepositoryImpl) TopByScore(ctx context.Context, limit int) ([]*models.UserStats, error) {
	db := r.getDB(ctx)

	var rows []*models.UserStats
	err := db.Model(&models.UserStats{}).
		Joins("JOIN users ON users.id = user_stats.user_id AND users.is_active").
		Joins("JOIN profiles ON profiles.user_id = user_stats.user_id AND profiles.is_public").
		Preload("User").
		Order("user_stats.score DESC, user_stats.user_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top stats: %w", err)
	}

	return rows, nil
}

func (r *UserStatsRepositoryImpl) applyFilter(db *gorm.DB, f models.UserStatsFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.MinScore != nil {
		db = db.Where("score >= ?", *f.MinScore)
	}
	return db
}

func (r *UserStatsRepositoryImpl) ByFilter(ctx context.Context, filter models.UserStatsFilter, orderBy string, limit, offset int) ([]*models.UserStats, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserStats{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UserStats
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserStatsRepositoryImpl) Count(ctx context.Context, filter models.UserStatsFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserStats{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserStatsRepositoryImpl) Exists(ctx context.Context, filter models.UserStatsFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
