// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// MaxLinksPerUser caps how many links one account may hold
const MaxLinksPerUser = 100

// LinkFlow handles bio link management and click tracking
type LinkFlow interface {
	CreateLink(ctx context.Context, userID uint, request *dto.CreateLinkRequest) (*dto.LinkDTO, error)
	UpdateLink(ctx context.Context, userID, linkID uint, request *dto.UpdateLinkRequest) (*dto.LinkDTO, error)
	DeleteLink(ctx context.Context, userID, linkID uint) error
	ListLinks(ctx context.Context, userID uint) (*dto.ListLinksResponse, error)
	ReorderLinks(ctx context.Context, userID uint, request *dto.ReorderLinksRequest) (*dto.ListLinksResponse, error)
	TrackClick(ctx context.Context, linkID uint) (*dto.ClickResponse, error)
	ExportClickReport(ctx context.Context, userID uint) (string, []byte, error)
}

// LinkFlowImpl implements the link business flow
type LinkFlowImpl struct {
	linkRepo  repository.UserLinkRepository
	userRepo  repository.UserRepository
	statsRepo repository.UserStatsRepository
	reportSvc services.ReportService
	db        *gorm.DB
}

// NewLinkFlow creates a new link flow instance
func NewLinkFlow(
	linkRepo repository.UserLinkRepository,
	userRepo repository.UserRepository,
	statsRepo repository.UserStatsRepository,
	reportSvc services.ReportService,
	db *gorm.DB,
) LinkFlow {
	return &LinkFlowImpl{
		linkRepo:  linkRepo,
		userRepo:  userRepo,
		statsRepo: statsRepo,
		reportSvc: reportSvc,
		db:        db,
	}
}

// CreateLink appends a new link at the end of the user's list
func (lf *LinkFlowImpl) CreateLink(ctx context.Context, userID uint, request *dto.CreateLinkRequest) (*dto.LinkDTO, error) {
	var link *models.UserLink

	err := repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		count, err := lf.linkRepo.Count(txCtx, models.UserLinkFilter{UserID: &userID})
		if err != nil {
			return err
		}
		if count >= MaxLinksPerUser {
			return ErrLinkAccessDenied
		}

		maxOrder, err := lf.linkRepo.MaxDisplayOrder(txCtx, userID)
		if err != nil {
			return err
		}

		link = &models.UserLink{
			UserID:       userID,
			Title:        strings.TrimSpace(request.Title),
			URL:          strings.TrimSpace(request.URL),
			Description:  request.Description,
			DisplayOrder: maxOrder + 1,
			IsActive:     utils.ToPtr(true),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		}
		return lf.linkRepo.Save(txCtx, link)
	})
	if err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Link create failed", err)
	}

	out := ToLinkDTO(*link)
	return &out, nil
}

// UpdateLink applies partial edits to a link the caller owns
func (lf *LinkFlowImpl) UpdateLink(ctx context.Context, userID, linkID uint, request *dto.UpdateLinkRequest) (*dto.LinkDTO, error) {
	link, err := lf.ownedLink(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		link.Title = strings.TrimSpace(*request.Title)
	}
	if request.URL != nil {
		link.URL = strings.TrimSpace(*request.URL)
	}
	if request.Description != nil {
		link.Description = request.Description
	}
	if request.IsActive != nil {
		link.IsActive = request.IsActive
	}

	if err := lf.linkRepo.Update(ctx, link); err != nil {
		return nil, NewBusinessError("LINK_UPDATE_FAILED", "Link update failed", err)
	}

	out := ToLinkDTO(*link)
	return &out, nil
}

// DeleteLink removes a link the caller owns
func (lf *LinkFlowImpl) DeleteLink(ctx context.Context, userID, linkID uint) error {
	if _, err := lf.ownedLink(ctx, userID, linkID); err != nil {
		return err
	}

	if err := lf.linkRepo.Delete(ctx, linkID); err != nil {
		return NewBusinessError("LINK_DELETE_FAILED", "Link delete failed", err)
	}

	return nil
}

// ListLinks returns the caller's links in display order, inactive included
func (lf *LinkFlowImpl) ListLinks(ctx context.Context, userID uint) (*dto.ListLinksResponse, error) {
	links, err := lf.linkRepo.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Link list failed", err)
	}

	return toListLinksResponse(links), nil
}

// ReorderLinks replaces the display order. The request must name every one of
// the user's links exactly once, otherwise nothing changes.
func (lf *LinkFlowImpl) ReorderLinks(ctx context.Context, userID uint, request *dto.ReorderLinksRequest) (*dto.ListLinksResponse, error) {
	var reordered []*models.UserLink

	err := repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		links, err := lf.linkRepo.ListByUser(txCtx, userID, false)
		if err != nil {
			return err
		}

		if len(request.LinkIDs) != len(links) {
			return ErrInvalidDisplayOrder
		}
		owned := make(map[uint]*models.UserLink, len(links))
		for _, link := range links {
			owned[link.ID] = link
		}
		seen := make(map[uint]bool, len(request.LinkIDs))
		for _, id := range request.LinkIDs {
			if owned[id] == nil || seen[id] {
				return ErrInvalidDisplayOrder
			}
			seen[id] = true
		}

		for pos, id := range request.LinkIDs {
			if err := lf.linkRepo.SetDisplayOrder(txCtx, id, pos+1); err != nil {
				return err
			}
			owned[id].DisplayOrder = pos + 1
		}

		reordered, err = lf.linkRepo.ListByUser(txCtx, userID, false)
		return err
	})
	if err != nil {
		return nil, NewBusinessError("LINK_REORDER_FAILED", "Link reorder failed", err)
	}

	return toListLinksResponse(reordered), nil
}

// TrackClick records a click on an active link. The link counter and the
// owner's aggregate counters move in one transaction: either both advance or
// neither does, so total_link_clicks always equals the sum of link clicks.
// The redirect is the primary contract: once the link resolves, a failed
// counter transaction is logged and the URL is returned anyway.
func (lf *LinkFlowImpl) TrackClick(ctx context.Context, linkID uint) (*dto.ClickResponse, error) {
	link, err := lf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, NewBusinessError("LINK_LOOKUP_FAILED", "Link lookup failed", err)
	}
	if link == nil || !utils.IsTrue(link.IsActive) {
		return nil, ErrLinkNotFound
	}

	err = repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		if err := lf.linkRepo.IncrementClicks(txCtx, link.ID); err != nil {
			return err
		}
		return lf.statsRepo.AddLinkClick(txCtx, link.UserID)
	})
	if err != nil {
		log.Printf("click tracking failed for link %d: %v", link.ID, err)
	}

	return &dto.ClickResponse{URL: link.URL}, nil
}

// ExportClickReport builds an xlsx report of the caller's links and counters
func (lf *LinkFlowImpl) ExportClickReport(ctx context.Context, userID uint) (string, []byte, error) {
	user, err := lf.userRepo.ByID(ctx, userID)
	if err != nil {
		return "", nil, NewBusinessError("USER_LOOKUP_FAILED", "User lookup failed", err)
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	stats, err := lf.statsRepo.ByUserID(ctx, userID)
	if err != nil {
		return "", nil, NewBusinessError("STATS_LOOKUP_FAILED", "Stats lookup failed", err)
	}
	if stats == nil {
		return "", nil, ErrProfileNotFound
	}

	links, err := lf.linkRepo.ListByUser(ctx, userID, false)
	if err != nil {
		return "", nil, NewBusinessError("LINK_LIST_FAILED", "Link list failed", err)
	}

	filename, data, err := lf.reportSvc.BuildClickReport(user, stats, links)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_BUILD_FAILED", "Report build failed", err)
	}

	return filename, data, nil
}

// Private helper methods

func (lf *LinkFlowImpl) ownedLink(ctx context.Context, userID, linkID uint) (*models.UserLink, error) {
	link, err := lf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, NewBusinessError("LINK_LOOKUP_FAILED", "Link lookup failed", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if link.UserID != userID {
		return nil, ErrLinkAccessDenied
	}
	return link, nil
}

func toListLinksResponse(links []*models.UserLink) *dto.ListLinksResponse {
	out := make([]dto.LinkDTO, 0, len(links))
	for _, link := range links {
		out = append(out, ToLinkDTO(*link))
	}
	return &dto.ListLinksResponse{Links: out}
}
