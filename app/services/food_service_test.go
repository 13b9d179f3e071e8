package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/services"
)

func TestFoodCRUDRequiresAdmin(t *testing.T) {
	foods := repositories.NewMockFoodRepository()
	service := services.NewFoodService(foods)
	ctx := context.Background()
	caller, root := customer(), admin()

	item := models.Food{Name: "Ramen", Price: 11, Tags: []string{"noodles"}}
	_, err := service.Create(ctx, caller, &item)
	assert.ErrorIs(t, err, services.ErrForbidden)

	created, err := service.Create(ctx, root, &item)
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	_, err = service.Update(ctx, caller, created.ID.Hex(), &item)
	assert.ErrorIs(t, err, services.ErrForbidden)

	item.Price = 12.5
	updated, err := service.Update(ctx, root, created.ID.Hex(), &item)
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)

	err = service.Delete(ctx, caller, created.ID.Hex())
	assert.ErrorIs(t, err, services.ErrForbidden)

	require.NoError(t, service.Delete(ctx, root, created.ID.Hex()))
	_, err = service.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFoodPriceValidation(t *testing.T) {
	foods := repositories.NewMockFoodRepository()
	service := services.NewFoodService(foods)
	ctx := context.Background()
	root := admin()

	_, err := service.Create(ctx, root, &models.Food{Name: "Ramen", Price: -1})
	assert.ErrorIs(t, err, services.ErrNegativePrice)

	created, err := service.Create(ctx, root, &models.Food{Name: "Ramen", Price: 11})
	require.NoError(t, err)

	_, err = service.Update(ctx, root, created.ID.Hex(), &models.Food{Name: "Ramen", Price: -0.5})
	assert.ErrorIs(t, err, services.ErrNegativePrice)
}

func TestFoodListAndTags(t *testing.T) {
	foods := repositories.NewMockFoodRepository()
	service := services.NewFoodService(foods)
	ctx := context.Background()
	root := admin()

	_, err := service.Create(ctx, root, &models.Food{Name: "Ramen", Price: 11, Tags: []string{"noodles", "soup"}})
	require.NoError(t, err)
	_, err = service.Create(ctx, root, &models.Food{Name: "Pho", Price: 10, Tags: []string{"noodles", "soup"}})
	require.NoError(t, err)
	_, err = service.Create(ctx, root, &models.Food{Name: "Pad Thai", Price: 10, Tags: []string{"noodles"}})
	require.NoError(t, err)

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := service.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.TagCount{Tag: "noodles", Count: 3}, counts[0])
	assert.Equal(t, models.TagCount{Tag: "soup", Count: 2}, counts[1])
}
