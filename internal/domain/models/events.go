package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedMessageAuth           = "auth"
	FeedMessageAuthOK         = "auth_ok"
	FeedMessageSessionCreated = "session_created"
	FeedMessageError          = "error"
)

// SessionCreatedEvent is published after a session is stored.
type SessionCreatedEvent struct {
	UserID     uuid.UUID    `json:"user_id"`
	Session    StudySession `json:"session"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// IngestMessage is a telemetry record published to the broker by a tracker.
type IngestMessage struct {
	Username string `json:"username" validate:"required"`
	SessionCreateRequest
}

// FeedMessage is a frame exchanged on the live sessions feed.
type FeedMessage struct {
	Type    string        `json:"type"`
	Token   string        `json:"token,omitempty"`
	UserID  *uuid.UUID    `json:"user_id,omitempty"`
	Session *StudySession `json:"session,omitempty"`
	Message string        `json:"message,omitempty"`
}
