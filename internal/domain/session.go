package domain

import (
	"context"
	"time"
)

// Session binds one client to a claimed user name. There is no credential;
// the token only identifies the client.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository defines the port for session persistence operations.
// Implementations receive the already hashed token.
type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	// GetByToken returns nil, nil when no session matches.
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
