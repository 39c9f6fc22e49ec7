package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post lives in the "posts" collection. The engagement engine only needs
// the owner for notification routing; the rest of the post lifecycle is
// handled elsewhere.
type Post struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"`
	Title         string             `json:"title,omitempty" bson:"title,omitempty"`
	Content       string             `json:"content" bson:"content"`
	ImageURLs     []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
