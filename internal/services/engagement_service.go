package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/mentions"
	"github.com/skillshare-hub/backend/internal/models"
	"github.com/skillshare-hub/backend/internal/repositories"
)

// ReactionResult is the outcome of a react call: the full per-type count
// breakdown and the caller's current reaction.
type ReactionResult struct {
	Counts       map[models.ReactionType]int64 `json:"counts"`
	Total        int64                         `json:"total"`
	UserReaction *models.Reaction              `json:"user_reaction,omitempty"`
}

// EngagementService coordinates follows, reactions and comments across the
// owning stores and fans the results out as notifications and real-time
// events. Notification and event-bus failures never fail the triggering
// operation.
type EngagementService interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	FollowerCount(ctx context.Context, userID string) (int, error)
	FollowingCount(ctx context.Context, userID string) (int, error)
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)

	React(ctx context.Context, userID, postID, reactionType string) (*ReactionResult, error)
	Unreact(ctx context.Context, userID, postID string) (map[models.ReactionType]int64, error)
	ReactionCounts(ctx context.Context, postID string) (map[models.ReactionType]int64, error)

	AddComment(ctx context.Context, postID, userID, text string) (*models.Comment, error)
	EditComment(ctx context.Context, commentID, userID, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
	CommentsByPost(ctx context.Context, postID string) ([]models.Comment, error)
}

type engagementService struct {
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	reactions     repositories.ReactionRepository
	notifications NotificationService
	bus           events.Bus
	logger        zerolog.Logger
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	notifications NotificationService,
	bus events.Bus,
	logger zerolog.Logger,
) EngagementService {
	return &engagementService{
		users:         users,
		posts:         posts,
		comments:      comments,
		reactions:     reactions,
		notifications: notifications,
		bus:           bus,
		logger:        logger,
	}
}

// FollowEventPayload is the event-bus payload for follow/unfollow events.
type FollowEventPayload struct {
	FollowerID string `json:"follower_id"`
	TargetID   string `json:"target_id"`
}

// ReactionEventPayload is the event-bus payload for reaction events.
type ReactionEventPayload struct {
	PostID string              `json:"post_id"`
	UserID string              `json:"user_id"`
	Type   models.ReactionType `json:"type"`
}

// CommentDeletedPayload is the event-bus payload for comment deletions.
type CommentDeletedPayload struct {
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
}

// Follow makes followerID follow targetID. Both identity documents are
// updated in a fixed order: the follower's "following" set first, then the
// target's "followers" set. A crash between the two steps leaves a
// detectable asymmetry that a reconciliation pass can repair using
// "following" as the source of truth; it is not surfaced as an error.
// Idempotent: following an already-followed user succeeds without a second
// notification or event.
func (s *engagementService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return apperrors.InvalidOperation("cannot follow yourself")
	}

	follower, err := s.users.GetUserByID(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	// Read-then-write: two concurrent follows of the same pair can both
	// pass this check and double-notify. $addToSet keeps the sets correct.
	if contains(follower.Following, targetID) {
		return nil
	}

	if err := s.users.AddToSet(ctx, followerID, repositories.FieldFollowing, targetID); err != nil {
		return err
	}
	if err := s.users.AddToSet(ctx, targetID, repositories.FieldFollowers, followerID); err != nil {
		// Accepted weak-consistency window: the primary direction committed,
		// so the operation counts as successful.
		s.logger.Warn().Err(err).
			Str("follower", followerID).Str("target", targetID).
			Msg("followers set update failed, graph temporarily asymmetric")
	}

	if _, err := s.notifications.NotifyFollow(ctx, targetID, follower.DisplayName(), followerID); err != nil {
		s.logger.Warn().Err(err).Str("target", targetID).Msg("follow notification dropped")
	}
	s.publish(ctx, events.UserTopic(targetID), events.TypeFollow, FollowEventPayload{FollowerID: followerID, TargetID: targetID})

	return nil
}

// Unfollow removes the follow relationship in the same fixed order as
// Follow. Unfollowing someone not followed is a no-op. No notification is
// created; an unfollow event is still published.
func (s *engagementService) Unfollow(ctx context.Context, followerID, targetID string) error {
	follower, err := s.users.GetUserByID(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if !contains(follower.Following, targetID) {
		return nil
	}

	if err := s.users.RemoveFromSet(ctx, followerID, repositories.FieldFollowing, targetID); err != nil {
		return err
	}
	if err := s.users.RemoveFromSet(ctx, targetID, repositories.FieldFollowers, followerID); err != nil {
		s.logger.Warn().Err(err).
			Str("follower", followerID).Str("target", targetID).
			Msg("followers set update failed, graph temporarily asymmetric")
	}

	s.publish(ctx, events.UserTopic(targetID), events.TypeUnfollow, FollowEventPayload{FollowerID: followerID, TargetID: targetID})

	return nil
}

// IsFollowing reports whether followerID currently follows targetID.
func (s *engagementService) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	follower, err := s.users.GetUserByID(ctx, followerID)
	if err != nil {
		return false, err
	}
	return contains(follower.Following, targetID), nil
}

// FollowerCount returns the number of followers of a user.
func (s *engagementService) FollowerCount(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(user.Followers), nil
}

// FollowingCount returns the number of users a user follows.
func (s *engagementService) FollowingCount(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(user.Following), nil
}

// Followers lists the users following userID. Member ids that no longer
// resolve to a user are skipped rather than failing the read.
func (s *engagementService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetUsersByIDs(ctx, user.Followers)
}

// Following lists the users userID follows, skipping stale member ids.
func (s *engagementService) Following(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetUsersByIDs(ctx, user.Following)
}

// React places or replaces the caller's reaction on a post and returns the
// recomputed per-type breakdown. The post owner is notified only when the
// reaction is new or changed type, and never for self-reactions.
func (s *engagementService) React(ctx context.Context, userID, postID, reactionType string) (*ReactionResult, error) {
	t, err := models.ParseReactionType(reactionType)
	if err != nil {
		return nil, apperrors.InvalidOperation(err.Error())
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	reactor, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous, err := s.reactions.Upsert(ctx, userID, postID, t)
	if err != nil {
		return nil, err
	}

	changed := previous == nil || *previous != t
	if changed && post.UserID != userID {
		if _, err := s.notifications.NotifyReaction(ctx, post.UserID, reactor.DisplayName(), postID, t); err != nil {
			s.logger.Warn().Err(err).Str("post", postID).Msg("reaction notification dropped")
		}
		s.publish(ctx, events.UserTopic(post.UserID), events.TypeReaction, ReactionEventPayload{PostID: postID, UserID: userID, Type: t})
	}

	counts, err := s.reactions.CountsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	reaction, err := s.reactions.GetByUserAndPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	return &ReactionResult{Counts: counts, Total: sumCounts(counts), UserReaction: reaction}, nil
}

// Unreact removes the caller's reaction from a post, if any, and returns
// the recomputed breakdown. Never notifies.
func (s *engagementService) Unreact(ctx context.Context, userID, postID string) (map[models.ReactionType]int64, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.reactions.Delete(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.reactions.CountsByPost(ctx, postID)
}

// ReactionCounts returns the per-type breakdown for a post.
func (s *engagementService) ReactionCounts(ctx context.Context, postID string) (map[models.ReactionType]int64, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.reactions.CountsByPost(ctx, postID)
}

// AddComment persists a comment and then handles its side effects:
// mention notifications for every resolved, deduplicated handle other than
// the commenter, and a live comment event on the post topic. Everything
// after persistence is best-effort.
func (s *engagementService) AddComment(ctx context.Context, postID, userID, text string) (*models.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	commenter, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCommentsCount(ctx, postID); err != nil {
		s.logger.Warn().Err(err).Str("post", postID).Msg("comments count increment failed")
	}

	s.notifyMentions(ctx, commenter, postID, text)
	s.publish(ctx, events.PostTopic(postID), events.TypeCommentNew, comment)

	return comment, nil
}

// EditComment updates a comment's text. Only the comment owner may edit.
// Mentions in the new text are processed again.
func (s *engagementService) EditComment(ctx context.Context, commentID, userID, text string) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperrors.InvalidOperation("not the comment owner")
	}
	commenter, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, commenter, comment.PostID, text)
	s.publish(ctx, events.PostTopic(comment.PostID), events.TypeCommentUpdated, comment)

	return comment, nil
}

// DeleteComment removes a comment. Only the comment owner may delete.
func (s *engagementService) DeleteComment(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return apperrors.InvalidOperation("not the comment owner")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if err := s.posts.DecrementCommentsCount(ctx, comment.PostID); err != nil {
		s.logger.Warn().Err(err).Str("post", comment.PostID).Msg("comments count decrement failed")
	}

	s.publish(ctx, events.PostTopic(comment.PostID), events.TypeCommentDeleted, CommentDeletedPayload{CommentID: commentID, PostID: comment.PostID})

	return nil
}

// CommentsByPost lists a post's comments, oldest first.
func (s *engagementService) CommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.GetCommentsByPostID(ctx, postID)
}

// notifyMentions resolves the handles mentioned in text and dispatches one
// MENTION notification per distinct recipient, excluding the commenter.
// A handle that fails to resolve is skipped; it never aborts the remaining
// handles or the comment itself.
func (s *engagementService) notifyMentions(ctx context.Context, commenter *models.User, postID, text string) {
	handles := mentions.Parse(text)
	if len(handles) == 0 {
		return
	}

	seen := make(map[string]bool, len(handles))
	for _, handle := range handles {
		mentioned, err := s.users.GetUserByUsername(ctx, handle)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.logger.Warn().Err(err).Str("handle", handle).Msg("mention resolution failed")
			}
			continue
		}

		recipientID := mentioned.ID.Hex()
		if recipientID == commenter.ID.Hex() || seen[recipientID] {
			continue
		}
		seen[recipientID] = true

		if _, err := s.notifications.NotifyMention(ctx, recipientID, commenter.Username, postID); err != nil {
			s.logger.Warn().Err(err).Str("recipient", recipientID).Msg("mention notification dropped")
		}
	}
}

// publish wraps a payload in an event envelope and publishes it,
// logging instead of propagating any failure.
func (s *engagementService) publish(ctx context.Context, topic, eventType string, payload interface{}) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("type", eventType).Msg("failed to build event")
		return
	}
	if err := s.bus.Publish(ctx, topic, event); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Str("type", eventType).Msg("event publish dropped")
	}
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func sumCounts(counts map[models.ReactionType]int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}
