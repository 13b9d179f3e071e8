package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Food is a purchasable catalog item. Orders snapshot name and price at
// creation time, so later edits never change past orders.
type Food struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Tags      []string           `bson:"tags" json:"tags"`
	Origins   []string           `bson:"origins" json:"origins"`
	Favorite  bool               `bson:"favorite" json:"favorite"`
	ImageURL  string             `bson:"image_url" json:"image_url"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// TagCount is one row of the tag aggregation: how many foods carry a tag.
type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int    `bson:"count" json:"count"`
}
