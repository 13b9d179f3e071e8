package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/zaika/config"
	"github.com/shashiranjanraj/zaika/pkg/auth"
)

func init() {
	Register("admin_user", seedAdminUser)
}

// seedAdminUser upserts the bootstrap admin account. Credentials come
// from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD so production deployments
// never ship the defaults.
func seedAdminUser(ctx context.Context, db *mongo.Database) error {
	email := config.Get("SEED_ADMIN_EMAIL", "admin@zaika.local")
	password := config.Get("SEED_ADMIN_PASSWORD", "changeme123")

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$setOnInsert": bson.M{
				"name":       "Administrator",
				"email":      email,
				"password":   hash,
				"admin":      true,
				"blocked":    false,
				"created_at": now,
				"updated_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
