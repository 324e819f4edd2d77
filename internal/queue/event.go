// Package queue defines the activity events exchanged over RabbitMQ along
// with their publisher and consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// DefaultQueue is the durable queue activity events are routed to.
const DefaultQueue = "filmorate.activity"

// EventType names a relationship change.
type EventType string

const (
	LikeAdded     EventType = "LIKE_ADDED"
	LikeRemoved   EventType = "LIKE_REMOVED"
	FriendAdded   EventType = "FRIEND_ADDED"
	FriendRemoved EventType = "FRIEND_REMOVED"
)

// ActivityEvent is published after a like or friendship changes. It carries
// enough for consumers to log or aggregate without reading the database.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	FilmID     int64     `json:"film_id,omitempty"`
	FriendID   int64     `json:"friend_id,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// NewLikeEvent builds a LIKE_ADDED or LIKE_REMOVED event.
func NewLikeEvent(t EventType, filmID, userID int64) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		FilmID:     filmID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewFriendEvent builds a FRIEND_ADDED or FRIEND_REMOVED event.
func NewFriendEvent(t EventType, userID, friendID int64) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		FriendID:   friendID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
