package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/zaika/app/models"
)

func init() {
	Register("starter_catalog", seedStarterCatalog)
}

// seedStarterCatalog upserts a small menu so a fresh install has
// something to browse. Keyed by name, so re-running never duplicates.
func seedStarterCatalog(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()
	items := []models.Food{
		{Name: "Margherita Pizza", Price: 9.5, Tags: []string{"pizza", "vegetarian"}, Origins: []string{"Italy"}, Favorite: true},
		{Name: "Butter Chicken", Price: 12.0, Tags: []string{"curry", "chicken"}, Origins: []string{"India"}},
		{Name: "Pad Thai", Price: 10.0, Tags: []string{"noodles"}, Origins: []string{"Thailand"}},
		{Name: "Falafel Wrap", Price: 7.5, Tags: []string{"wrap", "vegan"}, Origins: []string{"Lebanon"}},
		{Name: "Sushi Platter", Price: 15.0, Tags: []string{"sushi", "fish"}, Origins: []string{"Japan"}, Favorite: true},
		{Name: "Paneer Tikka", Price: 8.0, Tags: []string{"grill", "vegetarian"}, Origins: []string{"India"}},
	}

	col := db.Collection("foods")
	for _, f := range items {
		_, err := col.UpdateOne(ctx,
			bson.M{"name": f.Name},
			bson.M{"$setOnInsert": bson.M{
				"name":       f.Name,
				"price":      f.Price,
				"tags":       f.Tags,
				"origins":    f.Origins,
				"favorite":   f.Favorite,
				"image_url":  "",
				"created_at": now,
				"updated_at": now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
