package entity

import (
	"time"

	"stealdeals/internal/domain/value"
)

type User struct {
	ID           value.UserID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	Token     string
	UserID    value.UserID
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time
}

type AuthEventType string

const (
	AuthEventSignedIn    AuthEventType = "signed_in"
	AuthEventSignedOut   AuthEventType = "signed_out"
	AuthEventRoleChanged AuthEventType = "role_changed"
)

// AuthEvent is broadcast to every replica whenever a session or role changes.
type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserID     string        `json:"userId"`
	OccurredAt time.Time     `json:"occurredAt"`
}
