package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/models"
	"github.com/skillshare-hub/backend/internal/repositories"
)

// NotificationService creates durable notification records and pushes them
// to live subscribers. Persistence comes first: a failed real-time push is
// logged and dropped, never rolled back, so the inbox stays authoritative.
type NotificationService interface {
	Create(ctx context.Context, recipientID, title, message string, t models.NotificationType, relatedItemID string) (*models.Notification, error)
	NotifyFollow(ctx context.Context, recipientID, followerName, followerID string) (*models.Notification, error)
	NotifyMention(ctx context.Context, recipientID, mentionerName, postID string) (*models.Notification, error)
	NotifyComment(ctx context.Context, recipientID, commenterName, postID string) (*models.Notification, error)
	NotifyReaction(ctx context.Context, recipientID, reactorName, postID string, t models.ReactionType) (*models.Notification, error)
	NotifySystem(ctx context.Context, recipientID, title, message string) (*models.Notification, error)

	Get(ctx context.Context, id string) (*models.Notification, error)
	MarkRead(ctx context.Context, id string) (*models.Notification, error)
	MarkUnread(ctx context.Context, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// One message template per reaction type. Unrecognized types fall back to
// the LIKE wording; they cannot reach storage because the coordinator
// rejects them at the boundary.
var reactionMessages = map[models.ReactionType]string{
	models.ReactionLike:  "%s liked your post",
	models.ReactionLove:  "%s loved your post",
	models.ReactionHaha:  "%s laughed at your post",
	models.ReactionWow:   "%s is wowed by your post",
	models.ReactionSad:   "%s is saddened by your post",
	models.ReactionAngry: "%s is angry about your post",
}

type notificationService struct {
	repo   repositories.NotificationRepository
	bus    events.Bus
	logger zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repositories.NotificationRepository, bus events.Bus, logger zerolog.Logger) NotificationService {
	return &notificationService{repo: repo, bus: bus, logger: logger}
}

// Create persists a notification and then publishes it on the recipient's
// topic.
func (s *notificationService) Create(ctx context.Context, recipientID, title, message string, t models.NotificationType, relatedItemID string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:        recipientID,
		Title:         title,
		Message:       message,
		Type:          t,
		RelatedItemID: relatedItemID,
		Read:          false,
	}

	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}

	event, err := events.NewEvent(events.TypeNotification, notification)
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", recipientID).Msg("failed to build notification event")
		return notification, nil
	}
	if err := s.bus.Publish(ctx, events.UserTopic(recipientID), event); err != nil {
		s.logger.Warn().Err(err).Str("recipient", recipientID).Msg("notification push dropped")
	}

	return notification, nil
}

// NotifyFollow tells a user someone started following them.
func (s *notificationService) NotifyFollow(ctx context.Context, recipientID, followerName, followerID string) (*models.Notification, error) {
	message := fmt.Sprintf("%s started following you", followerName)
	return s.Create(ctx, recipientID, "New Follower", message, models.NotificationFollow, followerID)
}

// NotifyMention tells a user they were mentioned in a comment.
func (s *notificationService) NotifyMention(ctx context.Context, recipientID, mentionerName, postID string) (*models.Notification, error) {
	message := fmt.Sprintf("%s mentioned you in a post", mentionerName)
	return s.Create(ctx, recipientID, "New Mention", message, models.NotificationMention, postID)
}

// NotifyComment tells a post owner someone commented on their post.
func (s *notificationService) NotifyComment(ctx context.Context, recipientID, commenterName, postID string) (*models.Notification, error) {
	message := fmt.Sprintf("%s commented on your post", commenterName)
	return s.Create(ctx, recipientID, "New Comment", message, models.NotificationComment, postID)
}

// NotifyReaction tells a post owner someone reacted to their post, with the
// wording selected by reaction type.
func (s *notificationService) NotifyReaction(ctx context.Context, recipientID, reactorName, postID string, t models.ReactionType) (*models.Notification, error) {
	tmpl, ok := reactionMessages[t]
	if !ok {
		tmpl = reactionMessages[models.ReactionLike]
	}
	message := fmt.Sprintf(tmpl, reactorName)
	return s.Create(ctx, recipientID, "New Reaction", message, models.NotificationLike, postID)
}

// NotifySystem creates a system notification with no related item.
func (s *notificationService) NotifySystem(ctx context.Context, recipientID, title, message string) (*models.Notification, error) {
	return s.Create(ctx, recipientID, title, message, models.NotificationSystem, "")
}

// Get returns a single notification by id.
func (s *notificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	return s.repo.FindByID(ctx, id)
}

// MarkRead marks a notification as read.
func (s *notificationService) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	return s.repo.SetRead(ctx, id, true)
}

// MarkUnread marks a notification as unread.
func (s *notificationService) MarkUnread(ctx context.Context, id string) (*models.Notification, error) {
	return s.repo.SetRead(ctx, id, false)
}

// MarkAllRead marks every unread notification of a user as read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// ListForUser returns all notifications for a user, newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ListUnread returns unread notifications for a user, newest first.
func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.FindUnreadByUser(ctx, userID)
}

// CountUnread returns the unread notification count for a user.
func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Delete removes a notification.
func (s *notificationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
