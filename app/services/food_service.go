package services

import (
	"context"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/config"
	"github.com/shashiranjanraj/zaika/pkg/auth"
	"github.com/shashiranjanraj/zaika/pkg/cache"
)

const (
	cacheKeyFoods = "foods:all"
	cacheKeyTags  = "foods:tags"
)

// FoodService handles the catalog. Reads go through the Redis cache;
// every admin write invalidates it.
type FoodService struct {
	foods repositories.FoodRepository
}

func NewFoodService(foods repositories.FoodRepository) *FoodService {
	return &FoodService{foods: foods}
}

// List returns the whole catalog, cache-first.
func (s *FoodService) List(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if cache.Get(ctx, cacheKeyFoods, &foods) {
		return foods, nil
	}

	foods, err := s.foods.All(ctx)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(ctx, cacheKeyFoods, foods, config.CatalogCacheTTL())
	return foods, nil
}

// Get returns a single catalog item.
func (s *FoodService) Get(ctx context.Context, id string) (*models.Food, error) {
	return s.foods.FindByID(ctx, id)
}

// Tags returns per-tag item counts, cache-first.
func (s *FoodService) Tags(ctx context.Context) ([]models.TagCount, error) {
	var counts []models.TagCount
	if cache.Get(ctx, cacheKeyTags, &counts) {
		return counts, nil
	}

	counts, err := s.foods.TagCounts(ctx)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(ctx, cacheKeyTags, counts, config.CatalogCacheTTL())
	return counts, nil
}

// Create adds a catalog item; administrators only.
func (s *FoodService) Create(ctx context.Context, caller auth.Identity, food *models.Food) (*models.Food, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}
	if food.Price < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.foods.Create(ctx, food); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return food, nil
}

// Update replaces a catalog item's fields; administrators only.
func (s *FoodService) Update(ctx context.Context, caller auth.Identity, id string, food *models.Food) (*models.Food, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}
	if food.Price < 0 {
		return nil, ErrNegativePrice
	}

	updated, err := s.foods.Update(ctx, id, food)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a catalog item; administrators only. Past orders are
// unaffected: they carry snapshots, not references.
func (s *FoodService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if !caller.Admin {
		return ErrForbidden
	}

	if err := s.foods.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FoodService) invalidate(ctx context.Context) {
	_ = cache.Del(ctx, cacheKeyFoods, cacheKeyTags)
}
