package services

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// ProfileService manages a user's presentation settings and assembles the
// public page payload.
type ProfileService struct {
	profiles ports.ProfileRepository
	users    ports.UserRepository
	links    ports.LinkRepository
}

func NewProfileService(profiles ports.ProfileRepository, users ports.UserRepository, links ports.LinkRepository) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, links: links}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		return nil, domain.FetchErr("loading profile", err)
	}
	return profile, nil
}

// UpdateSettings patches only the fields present in the patch and returns the
// updated profile. Unknown enum values are rejected before the store is
// contacted.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.profiles.UpdateProfile(ctx, userID, patch, now); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		return nil, domain.PersistErr("updating profile settings", err)
	}
	return s.Get(ctx, userID)
}

// SetSocialLinks replaces the profile's social link list. Platform tags may
// repeat; URLs must be absolute.
func (s *ProfileService) SetSocialLinks(ctx context.Context, userID string, links []domain.SocialLink) error {
	for _, l := range links {
		if l.Platform == "" {
			return domain.Validationf("social link platform must not be empty")
		}
		if err := domain.ValidateURL(l.URL); err != nil {
			return err
		}
	}
	if err := s.profiles.ReplaceSocialLinks(ctx, userID, links); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return err
		}
		return domain.PersistErr("updating social links", err)
	}
	return nil
}

// GetByUsername assembles the public page: account, presentation settings
// and the ordered links.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*ports.PublicProfile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		return nil, domain.FetchErr("loading user", err)
	}

	profile, err := s.profiles.GetProfile(ctx, user.ID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		return nil, domain.FetchErr("loading profile", err)
	}

	links, err := s.links.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, domain.FetchErr("loading links", err)
	}

	return &ports.PublicProfile{User: user, Profile: profile, Links: links}, nil
}

var _ ports.ProfileService = (*ProfileService)(nil)
