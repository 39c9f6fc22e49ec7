package repositories

import (
	"context"
	"time"

	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Identity set fields on the user document.
const (
	FieldFollowers = "followers"
	FieldFollowing = "following"
)

// UserRepository defines the interface for user identity data operations
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	AddToSet(ctx context.Context, id, field, value string) error
	RemoveFromSet(ctx context.Context, id, field, value string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("user", id)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.TransientStore("find user", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username from MongoDB
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, apperrors.TransientStore("find user", err)
	}
	return &user, nil
}

// GetUsersByIDs batch-resolves a set of user IDs. IDs that are malformed or
// no longer resolve are skipped, never failing the whole read.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, apperrors.TransientStore("find users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, apperrors.TransientStore("decode users", err)
	}
	return users, nil
}

// AddToSet atomically adds a member to one of the identity set fields.
// Adding an already-present member is a no-op at the document level.
func (r *MongoUserRepository) AddToSet(ctx context.Context, id, field, value string) error {
	return r.updateSet(ctx, id, bson.M{
		"$addToSet": bson.M{field: value},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveFromSet atomically removes a member from one of the identity set
// fields. Removing an absent member is a no-op.
func (r *MongoUserRepository) RemoveFromSet(ctx context.Context, id, field, value string) error {
	return r.updateSet(ctx, id, bson.M{
		"$pull": bson.M{field: value},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoUserRepository) updateSet(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("user", id)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return apperrors.TransientStore("update user set", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}
