package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationSystem  NotificationType = "SYSTEM"
	NotificationComment NotificationType = "COMMENT"
	NotificationLike    NotificationType = "LIKE"
	NotificationMention NotificationType = "MENTION"
	NotificationFollow  NotificationType = "FOLLOW"
)

// Notification is the durable inbox record in the "notifications"
// collection. The real-time push over the event bus is a best-effort side
// channel; this document is the copy of record.
type Notification struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"`
	Title         string             `json:"title" bson:"title"`
	Message       string             `json:"message" bson:"message"`
	Type          NotificationType   `json:"type" bson:"type"`
	RelatedItemID string             `json:"related_item_id,omitempty" bson:"related_item_id,omitempty"`
	Read          bool               `json:"read" bson:"read"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}
