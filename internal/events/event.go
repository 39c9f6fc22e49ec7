// Package events is the process-wide publish/subscribe fabric used to push
// engagement events to live client connections. Delivery is at-most-once
// per subscriber with no durable queueing; the notification record in
// storage is the durable copy.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types carried on the bus.
const (
	TypeNotification   = "notification"
	TypeFollow         = "follow"
	TypeUnfollow       = "unfollow"
	TypeReaction       = "reaction"
	TypeCommentNew     = "comment.new"
	TypeCommentUpdated = "comment.updated"
	TypeCommentDeleted = "comment.deleted"
)

// Event is the envelope published on the bus.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent wraps a payload in an event envelope with a fresh id and the
// current timestamp.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now(),
	}, nil
}

// UnmarshalPayload unmarshals the event payload into the given struct.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// UserTopic is the per-recipient channel for notification pushes.
func UserTopic(userID string) string { return "user:" + userID }

// PostTopic is the per-post channel for live comment refresh.
func PostTopic(postID string) string { return "post:" + postID }
