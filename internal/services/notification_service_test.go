package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture() (*fakeNotificationRepo, *recordingBus, NotificationService) {
	repo := newFakeNotificationRepo()
	bus := &recordingBus{}
	return repo, bus, NewNotificationService(repo, bus, zerolog.Nop())
}

func TestCreatePersistsThenPublishes(t *testing.T) {
	repo, bus, svc := newNotificationFixture()

	n, err := svc.Create(context.Background(), "user-1", "Hello", "hello there", models.NotificationSystem, "")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.False(t, n.ID.IsZero(), "persisted before publish")
	assert.False(t, n.Read)

	require.Len(t, repo.saved(), 1)

	published := bus.eventsOfType(events.TypeNotification)
	require.Len(t, published, 1)
	assert.Equal(t, events.UserTopic("user-1"), published[0].Topic)

	var got models.Notification
	require.NoError(t, published[0].Event.UnmarshalPayload(&got))
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "hello there", got.Message)
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	repo, bus, svc := newNotificationFixture()
	bus.failPublish = true

	n, err := svc.Create(context.Background(), "user-1", "Hello", "hello there", models.NotificationSystem, "")
	require.NoError(t, err, "push failure must not fail creation")
	require.NotNil(t, n)
	assert.Len(t, repo.saved(), 1, "record stays persisted")
}

func TestNotifyFollowMessage(t *testing.T) {
	_, _, svc := newNotificationFixture()

	n, err := svc.NotifyFollow(context.Background(), "user-1", "alice", "alice-id")
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFollow, n.Type)
	assert.Equal(t, "New Follower", n.Title)
	assert.Equal(t, "alice started following you", n.Message)
	assert.Equal(t, "alice-id", n.RelatedItemID)
}

func TestNotifyReactionMessages(t *testing.T) {
	tests := []struct {
		reaction models.ReactionType
		want     string
	}{
		{models.ReactionLike, "alice liked your post"},
		{models.ReactionLove, "alice loved your post"},
		{models.ReactionHaha, "alice laughed at your post"},
		{models.ReactionWow, "alice is wowed by your post"},
		{models.ReactionSad, "alice is saddened by your post"},
		{models.ReactionAngry, "alice is angry about your post"},
		{models.ReactionType("MYSTERY"), "alice liked your post"},
	}
	for _, tt := range tests {
		t.Run(string(tt.reaction), func(t *testing.T) {
			_, _, svc := newNotificationFixture()
			n, err := svc.NotifyReaction(context.Background(), "user-1", "alice", "post-1", tt.reaction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Message)
			assert.Equal(t, models.NotificationLike, n.Type)
		})
	}
}

func TestMarkReadUnreadRoundTrip(t *testing.T) {
	_, _, svc := newNotificationFixture()
	n, err := svc.NotifySystem(context.Background(), "user-1", "Hello", "hello there")
	require.NoError(t, err)
	require.False(t, n.Read)

	read, err := svc.MarkRead(context.Background(), n.ID.Hex())
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := svc.MarkUnread(context.Background(), n.ID.Hex())
	require.NoError(t, err)
	assert.False(t, unread.Read)
	assert.Equal(t, n.Message, unread.Message, "only the read flag changes")
	assert.Equal(t, n.ID, unread.ID)
}

func TestMarkReadUnknownID(t *testing.T) {
	_, _, svc := newNotificationFixture()

	_, err := svc.MarkRead(context.Background(), "000000000000000000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	_, _, svc := newNotificationFixture()
	for i := 0; i < 3; i++ {
		_, err := svc.NotifySystem(context.Background(), "user-1", "Hello", "hello there")
		require.NoError(t, err)
	}
	_, err := svc.NotifySystem(context.Background(), "user-2", "Hello", "hello there")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	count, err := svc.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	other, err := svc.CountUnread(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "other inboxes untouched")

	// Idempotent.
	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))
}

func TestListForUserNewestFirst(t *testing.T) {
	_, _, svc := newNotificationFixture()
	first, err := svc.NotifySystem(context.Background(), "user-1", "First", "one")
	require.NoError(t, err)
	second, err := svc.NotifySystem(context.Background(), "user-1", "Second", "two")
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestListUnreadExcludesRead(t *testing.T) {
	_, _, svc := newNotificationFixture()
	n1, err := svc.NotifySystem(context.Background(), "user-1", "First", "one")
	require.NoError(t, err)
	_, err = svc.NotifySystem(context.Background(), "user-1", "Second", "two")
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), n1.ID.Hex())
	require.NoError(t, err)

	unread, err := svc.ListUnread(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Second", unread[0].Title)
}

func TestDeleteNotification(t *testing.T) {
	_, _, svc := newNotificationFixture()
	n, err := svc.NotifySystem(context.Background(), "user-1", "Hello", "hello there")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), n.ID.Hex()))

	_, err = svc.Get(context.Background(), n.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
