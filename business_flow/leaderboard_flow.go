// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/repository"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardCacheKeyFmt = "linkgrove:leaderboard:%d"
	leaderboardCacheTTL    = 60 * time.Second

	// DefaultLeaderboardLimit is used when the caller does not pass one
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit bounds how many rows one request may fetch
	MaxLeaderboardLimit = 100
)

// LeaderboardFlow serves the public score ranking
type LeaderboardFlow interface {
	Top(ctx context.Context, limit int) (*dto.LeaderboardResponse, error)
}

// LeaderboardFlowImpl implements the leaderboard business flow. Results are
// cached per limit in redis; a broken or absent cache degrades to the
// database instead of failing the request.
type LeaderboardFlowImpl struct {
	statsRepo repository.UserStatsRepository
	rc        *redis.Client
}

// NewLeaderboardFlow creates a new leaderboard flow instance. rc may be nil.
func NewLeaderboardFlow(statsRepo repository.UserStatsRepository, rc *redis.Client) LeaderboardFlow {
	return &LeaderboardFlowImpl{
		statsRepo: statsRepo,
		rc:        rc,
	}
}

// Top returns up to limit users ranked by score descending, user ID ascending
// on ties
func (lb *LeaderboardFlowImpl) Top(ctx context.Context, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return nil, ErrInvalidLimit
	}

	cacheKey := fmt.Sprintf(leaderboardCacheKeyFmt, limit)

	if lb.rc != nil {
		if bs, err := lb.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var entries []dto.LeaderboardEntryDTO
			if err := json.Unmarshal(bs, &entries); err == nil {
				return &dto.LeaderboardResponse{Entries: entries, Cached: true}, nil
			}
		}
	}

	rows, err := lb.statsRepo.TopByScore(ctx, limit)
	if err != nil {
		return nil, NewBusinessError("LEADERBOARD_FETCH_FAILED", "Leaderboard fetch failed", err)
	}

	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:            i + 1,
			Username:        row.User.Username,
			DisplayName:     row.User.DisplayName,
			Score:           row.Score,
			ProfileViews:    row.ProfileViews,
			TotalLinkClicks: row.TotalLinkClicks,
			Followers:       row.Followers,
		})
	}

	if lb.rc != nil {
		if bs, err := json.Marshal(entries); err == nil {
			_ = lb.rc.Set(ctx, cacheKey, bs, leaderboardCacheTTL).Err()
		}
	}

	return &dto.LeaderboardResponse{Entries: entries, Cached: false}, nil
}
