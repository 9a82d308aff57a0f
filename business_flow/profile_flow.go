// Package businessflow contains the core business logic and use cases for the bio-link platform
package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/linkgrove/linkgrove/app/dto"
	"github.com/linkgrove/linkgrove/models"
	"github.com/linkgrove/linkgrove/repository"
	"github.com/linkgrove/linkgrove/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles profile reads and edits
type ProfileFlow interface {
	GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	PublicProfile(ctx context.Context, username string) (*dto.PublicProfileResponse, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	statsRepo   repository.UserStatsRepository
	linkRepo    repository.UserLinkRepository
	db          *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	statsRepo repository.UserStatsRepository,
	linkRepo repository.UserLinkRepository,
	db *gorm.DB,
) ProfileFlow {
	return &ProfileFlowImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
		linkRepo:    linkRepo,
		db:          db,
	}
}

// GetProfile returns the owner's view of their account, profile and counters
func (pf *ProfileFlowImpl) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, profile, stats, err := pf.loadUserBundle(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User:    ToUserDTO(*user),
		Profile: ToProfileDTO(*profile),
		Stats:   ToUserStatsDTO(*stats),
	}, nil
}

// UpdateProfile applies partial edits to the caller's profile
func (pf *ProfileFlowImpl) UpdateProfile(ctx context.Context, userID uint, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	var resp *dto.ProfileResponse

	err := repository.WithTransaction(ctx, pf.db, func(txCtx context.Context) error {
		user, profile, stats, err := pf.loadUserBundle(txCtx, userID)
		if err != nil {
			return err
		}

		if request.Bio != nil {
			profile.Bio = strings.TrimSpace(*request.Bio)
		}
		if request.AvatarURL != nil {
			profile.AvatarURL = request.AvatarURL
		}
		if request.BannerURL != nil {
			profile.BannerURL = request.BannerURL
		}
		if request.AccentColor != nil {
			profile.AccentColor = *request.AccentColor
		}
		if request.Location != nil {
			profile.Location = request.Location
		}
		if request.Website != nil {
			profile.Website = request.Website
		}
		if request.IsPublic != nil {
			profile.IsPublic = request.IsPublic
		}

		if err := pf.profileRepo.Update(txCtx, profile); err != nil {
			return err
		}

		if request.DisplayName != nil {
			user.DisplayName = strings.TrimSpace(*request.DisplayName)
			if err := pf.userRepo.UpdateDisplayName(txCtx, user.ID, user.DisplayName); err != nil {
				return err
			}
		}

		resp = &dto.ProfileResponse{
			User:    ToUserDTO(*user),
			Profile: ToProfileDTO(*profile),
			Stats:   ToUserStatsDTO(*stats),
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Profile update failed", err)
	}

	return resp, nil
}

// PublicProfile returns the visitor-facing page for a username and counts the
// view. Private profiles and unknown usernames are indistinguishable to the
// caller. The view counter is telemetry: if the bump fails the page is still
// served.
func (pf *ProfileFlowImpl) PublicProfile(ctx context.Context, username string) (*dto.PublicProfileResponse, error) {
	user, err := pf.userRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}
	if user == nil || !utils.IsTrue(user.IsActive) {
		return nil, ErrProfileNotFound
	}

	profile, err := pf.profileRepo.ByUserID(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}
	if profile == nil || !utils.IsTrue(profile.IsPublic) {
		return nil, ErrProfileNotFound
	}

	if err := pf.statsRepo.AddProfileView(ctx, user.ID); err != nil {
		log.Printf("view tracking failed for user %d: %v", user.ID, err)
	}

	stats, err := pf.statsRepo.ByUserID(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}
	if stats == nil {
		return nil, ErrProfileNotFound
	}

	links, err := pf.linkRepo.ListByUser(ctx, user.ID, true)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}

	linkDTOs := make([]dto.LinkDTO, 0, len(links))
	for _, link := range links {
		linkDTOs = append(linkDTOs, ToLinkDTO(*link))
	}

	return &dto.PublicProfileResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Profile:     ToProfileDTO(*profile),
		Stats:       ToUserStatsDTO(*stats),
		Links:       linkDTOs,
	}, nil
}

func (pf *ProfileFlowImpl) loadUserBundle(ctx context.Context, userID uint) (*models.User, *models.Profile, *models.UserStats, error) {
	user, err := pf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, NewBusinessError("USER_LOOKUP_FAILED", "User lookup failed", err)
	}
	if user == nil {
		return nil, nil, nil, ErrUserNotFound
	}

	profile, err := pf.profileRepo.ByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}
	if profile == nil {
		return nil, nil, nil, ErrProfileNotFound
	}

	stats, err := pf.statsRepo.ByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, NewBusinessError("STATS_LOOKUP_FAILED", "Stats lookup failed", err)
	}
	if stats == nil {
		return nil, nil, nil, ErrProfileNotFound
	}

	return user, profile, stats, nil
}
