// Package services provides external service integrations and technical concerns like password hashing and tokens
package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/utils"
	"github.com/xuri/excelize/v2"
)

// ReportService builds downloadable analytics reports
type ReportService interface {
	BuildClickReport(user *models.User, stats *models.UserStats, links []*models.UserLink) (string, []byte, error)
}

// ReportServiceImpl implements ReportService using xlsx workbooks
type ReportServiceImpl struct{}

// NewReportService creates a new report service
func NewReportService() ReportService {
	return &ReportServiceImpl{}
}

// BuildClickReport renders a two-sheet workbook: per-link click counts and a
// summary of the user's aggregate counters. Returns filename and file bytes.
func (s *ReportServiceImpl) BuildClickReport(user *models.User, stats *models.UserStats, links []*models.UserLink) (string, []byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	linksSheet := sanitizeSheetName("Links")
	xl.SetSheetName(xl.GetSheetName(0), linksSheet)

	header := []string{"id", "title", "url", "display_order", "active", "clicks", "created_at"}
	_ = xl.SetSheetRow(linksSheet, "A1", &header)

	for ri, link := range links {
		record := []string{
			strconv.FormatUint(uint64(link.ID), 10),
			link.Title,
			link.URL,
			strconv.Itoa(link.DisplayOrder),
			strconv.FormatBool(utils.IsTrue(link.IsActive)),
			strconv.FormatInt(link.Clicks, 10),
			link.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(linksSheet, cellRef, &record)
	}

	summarySheet := "Summary"
	_, _ = xl.NewSheet(summarySheet)
	summaryRows := [][]string{
		{"username", user.Username},
		{"profile_views", strconv.FormatInt(stats.ProfileViews, 10)},
		{"total_link_clicks", strconv.FormatInt(stats.TotalLinkClicks, 10)},
		{"followers", strconv.FormatInt(stats.Followers, 10)},
		{"score", strconv.FormatInt(stats.Score, 10)},
		{"generated_at", utils.UTCNow().Format(time.RFC3339)},
	}
	for ri := range summaryRows {
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+1)
		_ = xl.SetSheetRow(summarySheet, cellRef, &summaryRows[ri])
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("failed to write click report: %w", err)
	}

	filename := fmt.Sprintf("%s_click_report.xlsx", user.Username)
	return filename, buf.Bytes(), nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := strings.TrimSpace(replacer.Replace(name))
	if len(safe) > 31 {
		safe = safe[:31]
	}
	if safe == "" {
		return "Sheet"
	}
	return safe
}
