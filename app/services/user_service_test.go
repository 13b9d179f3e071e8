package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

func seedUser(t *testing.T, users *repositories.MockUserRepository, email, password string, isAdmin bool) (models.User, auth.Identity) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Name: "Someone", Email: email, Password: hash, Admin: isAdmin}
	require.NoError(t, users.Create(context.Background(), &user))
	return user, auth.Identity{ID: user.ID.Hex(), Email: user.Email, Admin: user.Admin}
}

func TestProfileAndUpdate(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewUserService(users)
	ctx := context.Background()

	_, caller := seedUser(t, users, "alice@example.com", "s3cret-pass", false)

	got, err := service.Profile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	updated, err := service.UpdateProfile(ctx, caller, "Alice Cooper", "2 Side St")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "2 Side St", updated.Address)
}

func TestChangePassword(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewUserService(users)
	ctx := context.Background()

	user, caller := seedUser(t, users, "alice@example.com", "old-pass", false)

	err := service.ChangePassword(ctx, caller, "wrong", "new-pass")
	assert.ErrorIs(t, err, services.ErrBadCredentials)

	require.NoError(t, service.ChangePassword(ctx, caller, "old-pass", "new-pass"))

	stored, err := users.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "new-pass"))
	assert.False(t, auth.CheckPassword(stored.Password, "old-pass"))
}

func TestListRequiresAdmin(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewUserService(users)
	ctx := context.Background()

	_, caller := seedUser(t, users, "alice@example.com", "s3cret-pass", false)
	_, root := seedUser(t, users, "root@example.com", "s3cret-pass", true)

	_, err := service.List(ctx, caller)
	assert.ErrorIs(t, err, services.ErrForbidden)

	all, err := service.List(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestToggleBlock(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := services.NewUserService(users)
	ctx := context.Background()

	user, caller := seedUser(t, users, "alice@example.com", "s3cret-pass", false)
	_, root := seedUser(t, users, "root@example.com", "s3cret-pass", true)

	_, err := service.ToggleBlock(ctx, caller, user.ID.Hex())
	assert.ErrorIs(t, err, services.ErrForbidden)

	blocked, err := service.ToggleBlock(ctx, root, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	unblocked, err := service.ToggleBlock(ctx, root, user.ID.Hex())
	require.NoError(t, err)
	assert.False(t, unblocked.Blocked)

	_, err = service.ToggleBlock(ctx, root, "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
