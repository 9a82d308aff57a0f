// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/app/services"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// ShortLinkFlow handles short link creation and resolution
type ShortLinkFlow interface {
	CreateShortLink(ctx context.Context, userID *uint, request *dto.CreateShortLinkRequest) (*dto.ShortLinkDTO, error)
	Resolve(ctx context.Context, code string) (string, error)
	ListShortLinks(ctx context.Context, userID uint) (*dto.ListShortLinksResponse, error)
}

// ShortLinkFlowImpl implements the short link business flow
type ShortLinkFlowImpl struct {
	shortLinkRepo repository.ShortLinkRepository
	tokenSvc      services.TokenService
	db            *gorm.DB
}

// NewShortLinkFlow creates a new short link flow instance
func NewShortLinkFlow(
	shortLinkRepo repository.ShortLinkRepository,
	tokenSvc services.TokenService,
	db *gorm.DB,
) ShortLinkFlow {
	return &ShortLinkFlowImpl{
		shortLinkRepo: shortLinkRepo,
		tokenSvc:      tokenSvc,
		db:            db,
	}
}

// CreateShortLink mints a short link. A custom code is taken verbatim and
// fails if occupied; otherwise random codes are tried until one is free.
// Codes are immutable once created.
func (sf *ShortLinkFlowImpl) CreateShortLink(ctx context.Context, userID *uint, request *dto.CreateShortLinkRequest) (*dto.ShortLinkDTO, error) {
	targetURL := strings.TrimSpace(request.TargetURL)
	if targetURL == "" {
		return nil, NewBusinessError("SHORT_LINK_VALIDATION_FAILED", "Short link validation failed", ErrShortLinkNotFound)
	}

	var expiresAt *time.Time
	if request.TTLSeconds != nil {
		expiresAt = utils.UTCNowAddPtr(time.Duration(*request.TTLSeconds) * time.Second)
	}

	var row *models.ShortLink

	err := repository.WithTransaction(ctx, sf.db, func(txCtx context.Context) error {
		code, err := sf.allocateCode(txCtx, request.CustomCode)
		if err != nil {
			return err
		}

		row = &models.ShortLink{
			Code:      code,
			TargetURL: targetURL,
			UserID:    userID,
			ExpiresAt: expiresAt,
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}
		return sf.shortLinkRepo.Save(txCtx, row)
	})
	if err != nil {
		if IsInvalidShortCode(err) || IsShortCodeTaken(err) || IsShortCodeExhausted(err) {
			return nil, err
		}
		return nil, NewBusinessError("SHORT_LINK_CREATE_FAILED", "Short link create failed", err)
	}

	out := ToShortLinkDTO(*row)
	return &out, nil
}

// Resolve maps a code to its target URL. Matching is exact and
// case-sensitive. The hit counter is best effort: if the bump fails the
// redirect still goes out.
func (sf *ShortLinkFlowImpl) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrShortLinkNotFound
	}

	row, err := sf.shortLinkRepo.ByCode(ctx, code)
	if err != nil {
		return "", NewBusinessError("SHORT_LINK_LOOKUP_FAILED", "Short link lookup failed", err)
	}
	if row == nil {
		return "", ErrShortLinkNotFound
	}

	if row.IsExpired() {
		return "", ErrShortLinkExpired
	}

	if err := sf.shortLinkRepo.IncrementHits(ctx, row.ID); err != nil {
		log.Printf("hit tracking failed for short link %d: %v", row.ID, err)
	}

	return row.TargetURL, nil
}

// ListShortLinks returns all short links created by a user, newest first
func (sf *ShortLinkFlowImpl) ListShortLinks(ctx context.Context, userID uint) (*dto.ListShortLinksResponse, error) {
	rows, err := sf.shortLinkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("SHORT_LINK_LIST_FAILED", "Short link list failed", err)
	}

	out := make([]dto.ShortLinkDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToShortLinkDTO(*row))
	}

	return &dto.ListShortLinksResponse{ShortLinks: out}, nil
}

// Private helper methods

func (sf *ShortLinkFlowImpl) allocateCode(ctx context.Context, customCode *string) (string, error) {
	if customCode != nil {
		code := strings.TrimSpace(*customCode)
		if !isValidShortCode(code) {
			return "", ErrInvalidShortCode
		}
		taken, err := sf.shortLinkRepo.Exists(ctx, models.ShortLinkFilter{Code: &code})
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrShortCodeTaken
		}
		return code, nil
	}

	for attempt := 0; attempt < utils.ShortCodeMaxAttempts; attempt++ {
		code, err := sf.tokenSvc.GenerateShortCode()
		if err != nil {
			return "", err
		}
		taken, err := sf.shortLinkRepo.Exists(ctx, models.ShortLinkFilter{Code: &code})
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", ErrShortCodeExhausted
}

// isValidShortCode re-checks the custom code constraints inside the flow;
// the HTTP validator is a caller-side convenience, not the enforcement point.
func isValidShortCode(code string) bool {
	if len(code) < 4 || len(code) > 32 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
