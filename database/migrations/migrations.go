// Package migrations contains the MongoDB schema setup: collection
// indexes and validators. Each migration file uses init() to call
// Register(). The package is imported by cmd/zaika/main.go so every
// migration is registered at CLI startup, and the server runs the
// pending set on boot.
package migrations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Migration applies one idempotent schema change.
type Migration func(ctx context.Context, db *mongo.Database) error

type entry struct {
	name string
	fn   Migration
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a migration to the global registry.
// Call this from init() in your migration files.
func Register(name string, fn Migration) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// Run executes every registered migration that has not been applied yet,
// in registration order, recording each in the "migrations" collection.
// It stops on the first error.
func Run(ctx context.Context, db *mongo.Database) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	applied, err := appliedSet(ctx, db)
	if err != nil {
		return err
	}

	for _, e := range current {
		if applied[e.name] {
			continue
		}
		if err := e.fn(ctx, db); err != nil {
			return fmt.Errorf("migration %q: %w", e.name, err)
		}
		_, err := db.Collection("migrations").InsertOne(ctx, bson.M{
			"name":       e.name,
			"applied_at": time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("recording migration %q: %w", e.name, err)
		}
	}
	return nil
}

// Status returns the registered migration names mapped to whether each
// has been applied.
func Status(ctx context.Context, db *mongo.Database) ([]string, map[string]bool, error) {
	mu.Lock()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	mu.Unlock()

	applied, err := appliedSet(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return names, applied, nil
}

func appliedSet(ctx context.Context, db *mongo.Database) (map[string]bool, error) {
	cur, err := db.Collection("migrations").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading applied migrations: %w", err)
	}
	defer cur.Close(ctx)

	applied := make(map[string]bool)
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		applied[doc.Name] = true
	}
	return applied, cur.Err()
}
