package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

// AuthService handles signup, login, and per-request identity resolution.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Signup registers a new (non-admin) account and returns it with a fresh
// token. Duplicate emails surface as repositories.ErrDuplicateEmail.
func (s *AuthService) Signup(ctx context.Context, name, email, password, address string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Address:  address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, user.Admin)
	if err != nil {
		return nil, "", fmt.Errorf("auth: sign token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password both yield ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if user.Blocked {
		return nil, "", ErrAccountBlocked
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrBadCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, user.Admin)
	if err != nil {
		return nil, "", fmt.Errorf("auth: sign token: %w", err)
	}
	return user, token, nil
}

// Resolve re-reads the user behind a validated token and builds the caller
// identity for this request. Role and blocked state come from the store,
// not from token claims, so an admin demoted or blocked after token issue
// loses access on their next request.
func (s *AuthService) Resolve(ctx context.Context, userID string) (auth.Identity, bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return auth.Identity{}, false, err
	}

	identity := auth.Identity{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Admin: user.Admin,
	}
	return identity, user.Blocked, nil
}
