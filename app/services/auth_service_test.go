package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

func TestSignupAndLogin(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewAuthService(users)
	ctx := context.Background()

	user, token, err := service.Signup(ctx, "Alice", "Alice@Example.com", "s3cret-pass", "1 Main St")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, user.Admin, "signup never grants admin")
	assert.Equal(t, "alice@example.com", user.Email, "email stored lowercase")
	assert.NotEqual(t, "s3cret-pass", user.Password, "password stored hashed")

	// Same email again, case-insensitively, is a conflict.
	_, _, err = service.Signup(ctx, "Mallory", "ALICE@example.com", "other-pass", "")
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	got, token, err := service.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestLoginFailures(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewAuthService(users)
	ctx := context.Background()

	_, _, err := service.Signup(ctx, "Alice", "alice@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, _, err = service.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, services.ErrBadCredentials)

	_, _, err = service.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
}

func TestLoginBlockedAccount(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewAuthService(users)
	ctx := context.Background()

	user, _, err := service.Signup(ctx, "Alice", "alice@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = users.SetBlocked(ctx, user.ID.Hex(), true)
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, services.ErrAccountBlocked)
}

func TestResolveReadsFreshState(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewAuthService(users)
	ctx := context.Background()

	user, _, err := service.Signup(ctx, "Alice", "alice@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	identity, blocked, err := service.Resolve(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, user.ID.Hex(), identity.ID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.False(t, identity.Admin)

	// Blocking after token issue takes effect on the next resolution.
	_, err = users.SetBlocked(ctx, user.ID.Hex(), true)
	require.NoError(t, err)

	_, blocked, err = service.Resolve(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, blocked)

	_, _, err = service.Resolve(ctx, "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
