package services

import (
	"context"
	"errors"
	"sync"

	"github.com/skillshare-hub/backend/internal/apperrors"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/models"
	"github.com/skillshare-hub/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes implementing the repository interfaces. They honor
// the same contracts as the Mongo implementations: set semantics on the
// identity fields, key uniqueness on reactions, zero-filled counts.

type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[string]*models.User
	byUsername    map[string]string
	failUsernames map[string]error
	failAddToSet  map[string]error // keyed by id + "|" + field
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]*models.User),
		byUsername:    make(map[string]string),
		failUsernames: make(map[string]error),
		failAddToSet:  make(map[string]error),
	}
}

func (r *fakeUserRepo) addUser(username string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Followers: []string{},
		Following: []string{},
	}
	r.users[u.ID.Hex()] = u
	r.byUsername[username] = u.ID.Hex()
	return u
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failUsernames[username]; ok {
		return nil, err
	}
	id, ok := r.byUsername[username]
	if !ok {
		return nil, apperrors.NotFound("user", username)
	}
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) AddToSet(_ context.Context, id, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failAddToSet[id+"|"+field]; ok {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user", id)
	}
	set := r.fieldSet(u, field)
	for _, v := range *set {
		if v == value {
			return nil
		}
	}
	*set = append(*set, value)
	return nil
}

func (r *fakeUserRepo) RemoveFromSet(_ context.Context, id, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user", id)
	}
	set := r.fieldSet(u, field)
	out := (*set)[:0]
	for _, v := range *set {
		if v != value {
			out = append(out, v)
		}
	}
	*set = out
	return nil
}

func (r *fakeUserRepo) fieldSet(u *models.User, field string) *[]string {
	if field == repositories.FieldFollowers {
		return &u.Followers
	}
	return &u.Following
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) addPost(ownerID string) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &models.Post{ID: primitive.NewObjectID(), UserID: ownerID, Content: "post"}
	r.posts[p.ID.Hex()] = p
	return p
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperrors.NotFound("post", id)
	}
	return p, nil
}

func (r *fakePostRepo) IncrementCommentsCount(_ context.Context, postID string) error {
	return r.incComments(postID, 1)
}

func (r *fakePostRepo) DecrementCommentsCount(_ context.Context, postID string) error {
	return r.incComments(postID, -1)
}

func (r *fakePostRepo) incComments(postID string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[postID]; ok {
		p.CommentsCount += delta
	}
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
	order    []string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	r.comments[comment.ID.Hex()] = comment
	r.order = append(r.order, comment.ID.Hex())
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment", id)
	}
	return c, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := []models.Comment{}
	for _, id := range r.order {
		if c := r.comments[id]; c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID.Hex()]; !ok {
		return apperrors.NotFound("comment", comment.ID.Hex())
	}
	r.comments[comment.ID.Hex()] = comment
	return nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFound("comment", id)
	}
	delete(r.comments, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeReactionRepo struct {
	mu        sync.Mutex
	reactions map[string]*models.Reaction // key userID + "|" + postID
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[string]*models.Reaction)}
}

func (r *fakeReactionRepo) Upsert(_ context.Context, userID, postID string, t models.ReactionType) (*models.ReactionType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + "|" + postID
	if existing, ok := r.reactions[key]; ok {
		prev := existing.Type
		existing.Type = t
		return &prev, nil
	}
	r.reactions[key] = &models.Reaction{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		PostID: postID,
		Type:   t,
	}
	return nil, nil
}

func (r *fakeReactionRepo) Delete(_ context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reactions, userID+"|"+postID)
	return nil
}

func (r *fakeReactionRepo) GetByUserAndPost(_ context.Context, userID, postID string) (*models.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reaction, ok := r.reactions[userID+"|"+postID]
	if !ok {
		return nil, nil
	}
	return reaction, nil
}

func (r *fakeReactionRepo) CountsByPost(_ context.Context, postID string) (map[models.ReactionType]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.ReactionType]int64, len(models.ReactionTypes))
	for _, t := range models.ReactionTypes {
		counts[t] = 0
	}
	for _, reaction := range r.reactions {
		if reaction.PostID == postID {
			counts[reaction.Type]++
		}
	}
	return counts, nil
}

// rowsForPost reports how many reaction rows exist for a post, across all
// users. Used to assert the one-row-per-key invariant.
func (r *fakeReactionRepo) rowsForPost(postID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, reaction := range r.reactions {
		if reaction.PostID == postID {
			n++
		}
	}
	return n
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.Notification
	order []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	r.byID[n.ID.Hex()] = n
	r.order = append(r.order, n.ID.Hex())
	return nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("notification", id)
	}
	return n, nil
}

func (r *fakeNotificationRepo) FindByUser(_ context.Context, userID string) ([]models.Notification, error) {
	return r.find(userID, false)
}

func (r *fakeNotificationRepo) FindUnreadByUser(_ context.Context, userID string) ([]models.Notification, error) {
	return r.find(userID, true)
}

func (r *fakeNotificationRepo) find(userID string, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notifications := []models.Notification{}
	// Newest first.
	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.byID[r.order[i]]
		if n == nil || n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		notifications = append(notifications, *n)
	}
	return notifications, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	unread, _ := r.find(userID, true)
	return int64(len(unread)), nil
}

func (r *fakeNotificationRepo) SetRead(_ context.Context, id string, read bool) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("notification", id)
	}
	n.Read = read
	return n, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byID {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("notification", id)
	}
	delete(r.byID, id)
	return nil
}

// saved returns every notification persisted so far, oldest first.
func (r *fakeNotificationRepo) saved() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, id := range r.order {
		if n, ok := r.byID[id]; ok {
			out = append(out, *n)
		}
	}
	return out
}

type publishedEvent struct {
	Topic string
	Event *events.Event
}

// recordingBus captures publishes instead of delivering them, and can be
// told to fail so the non-fatal publish contract can be asserted.
type recordingBus struct {
	mu          sync.Mutex
	published   []publishedEvent
	failPublish bool
}

func (b *recordingBus) Publish(_ context.Context, topic string, event *events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPublish {
		return errors.New("publish failed")
	}
	b.published = append(b.published, publishedEvent{Topic: topic, Event: event})
	return nil
}

func (b *recordingBus) Subscribe(string) (*events.Subscription, error) {
	return nil, errors.New("recordingBus does not deliver")
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) events() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedEvent(nil), b.published...)
}

func (b *recordingBus) eventsOfType(eventType string) []publishedEvent {
	out := []publishedEvent{}
	for _, p := range b.events() {
		if p.Event.Type == eventType {
			out = append(out, p)
		}
	}
	return out
}
