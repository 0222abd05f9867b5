package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitlog/internal/domain"

	"golang.org/x/crypto/blake2b"
)

// DefaultSessionTTL is used when NewSessionService gets a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

// ErrEmptyName indicates a login attempt without a user name.
var ErrEmptyName = errors.New("name must not be empty")

// SessionService binds clients to claimed user names.
type SessionService struct {
	sessions domain.SessionRepository
	heights  domain.HeightCache
	ttl      time.Duration
	now      func() time.Time
	// RandTokenFunc generates session tokens; replaceable in tests.
	RandTokenFunc func() (string, error)
}

// NewSessionService creates a new session service.
func NewSessionService(sessions domain.SessionRepository, heights domain.HeightCache, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessions:      sessions,
		heights:       heights,
		ttl:           ttl,
		now:           time.Now,
		RandTokenFunc: generateToken,
	}
}

// TTL is how long a new session stays valid.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Login binds a new session to name and makes sure the user has a height
// cache entry. It returns the raw token to hand to the client.
func (s *SessionService) Login(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	token, err := s.RandTokenFunc()
	if err != nil {
		return "", err
	}

	now := s.now()
	err = s.sessions.Create(ctx, domain.Session{
		Token:     HashToken(token),
		UserID:    name,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	if err := s.heights.Ensure(ctx, name); err != nil {
		return "", fmt.Errorf("ensure height entry: %w", err)
	}
	return token, nil
}

// Resolve returns the user bound to token. ok is false for unknown or
// expired sessions; expired ones are deleted on the way.
func (s *SessionService) Resolve(ctx context.Context, token string) (userID string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}
	hashed := HashToken(token)
	session, err := s.sessions.GetByToken(ctx, hashed)
	if err != nil {
		return "", false, err
	}
	if session == nil {
		return "", false, nil
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, hashed)
		return "", false, nil
	}
	return session.UserID, true, nil
}

// Logout invalidates a session. Unknown or empty tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, HashToken(token))
}

// HashToken returns the hex blake2b-256 digest under which a token is stored.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
