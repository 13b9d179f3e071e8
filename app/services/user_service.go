package services

import (
	"context"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

// UserService handles profile and account administration.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, caller auth.Identity) (*models.User, error) {
	return s.users.FindByID(ctx, caller.ID)
}

// UpdateProfile changes the caller's name and address.
func (s *UserService) UpdateProfile(ctx context.Context, caller auth.Identity, name, address string) (*models.User, error) {
	return s.users.UpdateProfile(ctx, caller.ID, name, address)
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, caller auth.Identity, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, oldPassword) {
		return ErrBadCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, caller.ID, hash)
}

// List returns all accounts; administrators only.
func (s *UserService) List(ctx context.Context, caller auth.Identity) ([]models.User, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}
	return s.users.All(ctx)
}

// ToggleBlock flips the blocked flag on an account; administrators only.
// A blocked account fails identity resolution on its next request.
func (s *UserService) ToggleBlock(ctx context.Context, caller auth.Identity, userID string) (*models.User, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.SetBlocked(ctx, userID, !user.Blocked)
}
