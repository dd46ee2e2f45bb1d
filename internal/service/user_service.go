package service

import (
	"context"
	"errors"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

// UserService reads account data for authenticated users.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Me returns the account behind userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, internalError("Failed to load user", err)
	}
	return user, nil
}
