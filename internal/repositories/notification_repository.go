package repositories

import (
	"context"
	"time"

	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Save(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]models.Notification, error)
	FindUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	SetRead(ctx context.Context, id string, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Save persists a new notification in MongoDB
func (r *MongoNotificationRepository) Save(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return apperrors.TransientStore("insert notification", err)
	}
	return nil
}

// FindByID retrieves a notification by ID from MongoDB
func (r *MongoNotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("notification", id)
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("notification", id)
		}
		return nil, apperrors.TransientStore("find notification", err)
	}
	return &notification, nil
}

// FindByUser retrieves all notifications for a user, newest first
func (r *MongoNotificationRepository) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.findByFilter(ctx, bson.M{"user_id": userID})
}

// FindUnreadByUser retrieves unread notifications for a user, newest first
func (r *MongoNotificationRepository) FindUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.findByFilter(ctx, bson.M{"user_id": userID, "read": false})
}

func (r *MongoNotificationRepository) findByFilter(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.TransientStore("find notifications", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, apperrors.TransientStore("decode notifications", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, apperrors.TransientStore("count notifications", err)
	}
	return count, nil
}

// SetRead updates the read flag of a notification and returns the updated
// record. No other field is mutated.
func (r *MongoNotificationRepository) SetRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("notification", id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var notification models.Notification
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"read": read}},
		opts,
	).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("notification", id)
		}
		return nil, apperrors.TransientStore("update notification", err)
	}
	return &notification, nil
}

// MarkAllRead marks every unread notification of a user as read.
// Idempotent: already-read items are untouched.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return apperrors.TransientStore("mark all read", err)
	}
	return nil
}

// Delete removes a notification by ID
func (r *MongoNotificationRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("notification", id)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperrors.TransientStore("delete notification", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("notification", id)
	}
	return nil
}
