// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LeaderboardEntryDTO is one ranked row on the public leaderboard
type LeaderboardEntryDTO struct {
	Rank            int    `json:"rank"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	Score           int64  `json:"score"`
	ProfileViews    int64  `json:"profile_views"`
	TotalLinkClicks int64  `json:"total_link_clicks"`
	Followers       int64  `json:"followers"`
}

// LeaderboardResponse wraps the ranked entries
type LeaderboardResponse struct {
	Entries []LeaderboardEntryDTO `json:"entries"`
	Cached  bool                  `json:"cached"`
}
