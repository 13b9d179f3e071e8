package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/zaika/app/models"
)

// MockFoodRepository is an in-memory FoodRepository for tests.
type MockFoodRepository struct {
	mu    sync.RWMutex
	foods map[string]models.Food
}

func NewMockFoodRepository() *MockFoodRepository {
	return &MockFoodRepository{foods: make(map[string]models.Food)}
}

func (r *MockFoodRepository) Create(_ context.Context, food *models.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	food.CreatedAt = now
	food.UpdatedAt = now
	r.foods[food.ID.Hex()] = *food
	return nil
}

func (r *MockFoodRepository) Update(_ context.Context, id string, food *models.Food) (*models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	existing.Name = food.Name
	existing.Price = food.Price
	existing.Tags = food.Tags
	existing.Origins = food.Origins
	existing.Favorite = food.Favorite
	existing.ImageURL = food.ImageURL
	existing.UpdatedAt = time.Now().UTC()
	r.foods[id] = existing
	return &existing, nil
}

func (r *MockFoodRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.foods[id]; !ok {
		return ErrNotFound
	}
	delete(r.foods, id)
	return nil
}

func (r *MockFoodRepository) FindByID(_ context.Context, id string) (*models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *MockFoodRepository) FindByIDs(_ context.Context, ids []string) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.foods[id]; ok {
			foods = append(foods, f)
		}
	}
	return foods, nil
}

func (r *MockFoodRepository) All(_ context.Context) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, 0, len(r.foods))
	for _, f := range r.foods {
		foods = append(foods, f)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	return foods, nil
}

func (r *MockFoodRepository) TagCounts(_ context.Context) ([]models.TagCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTag := map[string]int{}
	for _, f := range r.foods {
		for _, t := range f.Tags {
			byTag[t]++
		}
	}

	counts := make([]models.TagCount, 0, len(byTag))
	for tag, n := range byTag {
		counts = append(counts, models.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	return counts, nil
}
