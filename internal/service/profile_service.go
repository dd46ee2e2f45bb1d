package service

import (
	"context"
	"errors"
	"strings"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

const maxProfileNameLength = 50

// ProfileStore is the profile persistence used by ProfileService.
type ProfileStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Profile, error)
	Create(ctx context.Context, userID string, req models.CreateProfileRequest) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, id string) error
}

// ProfileService manages viewer profiles. Every profile-scoped operation
// goes through Owned, so a profile of another user looks missing.
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// List returns the user's profiles.
func (s *ProfileService) List(ctx context.Context, userID string) ([]models.Profile, error) {
	profiles, err := s.profiles.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("Failed to list profiles", err)
	}
	return profiles, nil
}

// Create adds a profile to the user's account.
func (s *ProfileService) Create(ctx context.Context, userID string, req models.CreateProfileRequest) (*models.Profile, error) {
	name, err := validateProfileName(req.Name)
	if err != nil {
		return nil, err
	}
	req.Name = name
	req.AvatarKey = strings.TrimSpace(req.AvatarKey)

	profile, err := s.profiles.Create(ctx, userID, req)
	if err != nil {
		return nil, internalError("Failed to create profile", err)
	}
	return profile, nil
}

// Update applies the non-nil fields of req to an owned profile.
func (s *ProfileService) Update(ctx context.Context, userID, profileID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.Owned(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateProfileName(*req.Name)
		if err != nil {
			return nil, err
		}
		profile.Name = name
	}
	if req.AvatarKey != nil {
		profile.AvatarKey = strings.TrimSpace(*req.AvatarKey)
	}
	if req.IsKid != nil {
		profile.IsKid = *req.IsKid
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Profile not found")
		}
		return nil, internalError("Failed to update profile", err)
	}
	return profile, nil
}

// Delete removes an owned profile.
func (s *ProfileService) Delete(ctx context.Context, userID, profileID string) error {
	if _, err := s.Owned(ctx, userID, profileID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, profileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Profile not found")
		}
		return internalError("Failed to delete profile", err)
	}
	return nil
}

// Owned returns the profile if it belongs to userID.
func (s *ProfileService) Owned(ctx context.Context, userID, profileID string) (*models.Profile, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, validationError("Profile id is required")
	}
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Profile not found")
		}
		return nil, internalError("Failed to load profile", err)
	}
	if profile.UserID != userID {
		return nil, notFoundError("Profile not found")
	}
	return profile, nil
}

func validateProfileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("Profile name is required")
	}
	if len([]rune(name)) > maxProfileNameLength {
		return "", validationError("Profile name is too long")
	}
	return name, nil
}
