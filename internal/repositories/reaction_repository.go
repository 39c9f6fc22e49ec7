package repositories

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// reactionKeyStripes sizes the striped lock table that serializes in-process
// writers on the same (user, post) key.
const reactionKeyStripes = 64

// ReactionRepository defines the interface for reaction data operations.
// Invariant: at most one reaction exists per (user, post) key at any time.
type ReactionRepository interface {
	Upsert(ctx context.Context, userID, postID string, t models.ReactionType) (previous *models.ReactionType, err error)
	Delete(ctx context.Context, userID, postID string) error
	GetByUserAndPost(ctx context.Context, userID, postID string) (*models.Reaction, error)
	CountsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error)
}

// MongoReactionRepository implements ReactionRepository for MongoDB
type MongoReactionRepository struct {
	collection *mongo.Collection
	keyLocks   [reactionKeyStripes]sync.Mutex
}

// NewMongoReactionRepository creates a new MongoReactionRepository
func NewMongoReactionRepository(db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{collection: db.Collection("reactions")}
}

// EnsureIndexes creates the unique (user_id, post_id) index backing the
// one-reaction-per-key invariant. Call once at startup.
func (r *MongoReactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoReactionRepository) keyLock(userID, postID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(postID))
	return &r.keyLocks[h.Sum32()%reactionKeyStripes]
}

// Upsert replaces the caller's reaction on a post in a single atomic
// update keyed on (user_id, post_id), and reports the previously stored
// type (nil when the reaction is new). Same-type repeats are idempotent.
func (r *MongoReactionRepository) Upsert(ctx context.Context, userID, postID string, t models.ReactionType) (*models.ReactionType, error) {
	mu := r.keyLock(userID, postID)
	mu.Lock()
	defer mu.Unlock()

	filter := bson.M{"user_id": userID, "post_id": postID}
	update := bson.M{
		"$set":         bson.M{"type": t},
		"$setOnInsert": bson.M{"user_id": userID, "post_id": postID, "created_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var before models.Reaction
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Nothing existed for the key; the upsert inserted it.
			return nil, nil
		}
		return nil, apperrors.TransientStore("upsert reaction", err)
	}

	prev := before.Type
	return &prev, nil
}

// Delete removes the caller's reaction on a post. Deleting an absent
// reaction is a no-op, not an error.
func (r *MongoReactionRepository) Delete(ctx context.Context, userID, postID string) error {
	mu := r.keyLock(userID, postID)
	mu.Lock()
	defer mu.Unlock()

	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		return apperrors.TransientStore("delete reaction", err)
	}
	return nil
}

// GetByUserAndPost returns the caller's current reaction on a post, or nil
// if none exists.
func (r *MongoReactionRepository) GetByUserAndPost(ctx context.Context, userID, postID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "post_id": postID}).Decode(&reaction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.TransientStore("find reaction", err)
	}
	return &reaction, nil
}

// CountsByPost returns the per-type reaction breakdown for a post. Every
// known type appears in the map, zero-filled when absent.
func (r *MongoReactionRepository) CountsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"post_id": postID}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.TransientStore("count reactions", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.ReactionType]int64, len(models.ReactionTypes))
	for _, t := range models.ReactionTypes {
		counts[t] = 0
	}

	var row struct {
		Type  models.ReactionType `bson:"_id"`
		Count int64               `bson:"count"`
	}
	for cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return nil, apperrors.TransientStore("decode reaction counts", err)
		}
		// Rows with retired type strings stay out of the breakdown.
		if _, known := counts[row.Type]; !known {
			continue
		}
		counts[row.Type] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.TransientStore("count reactions", err)
	}
	return counts, nil
}
