package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactionType is the closed set of reactions a user can place on a post.
type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionHaha  ReactionType = "HAHA"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

// ReactionTypes lists every valid type, in a stable order used for
// zero-filled count breakdowns.
var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

// ParseReactionType validates a caller-supplied type string. Unknown values
// are rejected at the boundary rather than coerced into storage.
func ParseReactionType(s string) (ReactionType, error) {
	t := ReactionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ReactionTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown reaction type %q", s)
}

// Reaction is one row in the "reactions" collection. (user_id, post_id) is
// a unique key: a user holds at most one reaction per post at any time.
type Reaction struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	PostID    string             `json:"post_id" bson:"post_id"`
	Type      ReactionType       `json:"type" bson:"type"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type ReactRequest struct {
	Type string `json:"type" validate:"required"`
}
