package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/zaika/app/models"
)

// FoodRepository handles persistence for the food catalog.
type FoodRepository interface {
	Create(ctx context.Context, food *models.Food) error
	Update(ctx context.Context, id string, food *models.Food) (*models.Food, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Food, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Food, error)
	All(ctx context.Context) ([]models.Food, error)
	TagCounts(ctx context.Context) ([]models.TagCount, error)
}

type mongoFoodRepository struct {
	col *mongo.Collection
}

func NewMongoFoodRepository(col *mongo.Collection) FoodRepository {
	return &mongoFoodRepository{col: col}
}

func (r *mongoFoodRepository) Create(ctx context.Context, food *models.Food) error {
	now := time.Now().UTC()
	food.CreatedAt = now
	food.UpdatedAt = now
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, food); err != nil {
		return fmt.Errorf("foods: insert: %w", err)
	}
	return nil
}

func (r *mongoFoodRepository) Update(ctx context.Context, id string, food *models.Food) (*models.Food, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{
		"name":       food.Name,
		"price":      food.Price,
		"tags":       food.Tags,
		"origins":    food.Origins,
		"favorite":   food.Favorite,
		"image_url":  food.ImageURL,
		"updated_at": time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Food
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("foods: update: %w", err)
	}
	return &updated, nil
}

func (r *mongoFoodRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("foods: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoFoodRepository) FindByID(ctx context.Context, id string) (*models.Food, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var food models.Food
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("foods: find by id: %w", err)
	}
	return &food, nil
}

func (r *mongoFoodRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Food, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, ErrNotFound
		}
		oids = append(oids, oid)
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("foods: find by ids: %w", err)
	}
	defer cur.Close(ctx)

	var foods []models.Food
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("foods: decode: %w", err)
	}
	return foods, nil
}

func (r *mongoFoodRepository) All(ctx context.Context) ([]models.Food, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("foods: list: %w", err)
	}
	defer cur.Close(ctx)

	var foods []models.Food
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("foods: decode: %w", err)
	}
	return foods, nil
}

// TagCounts aggregates how many foods carry each tag.
func (r *mongoFoodRepository) TagCounts(ctx context.Context) ([]models.TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("foods: tag counts: %w", err)
	}
	defer cur.Close(ctx)

	var counts []models.TagCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("foods: decode tag counts: %w", err)
	}
	return counts, nil
}
