// Package redis keeps the height cache and sessions in Redis so several
// server processes can share them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fitlog/internal/domain"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	heightKeyPrefix  = "fitlog:height:"
	sessionKeyPrefix = "fitlog:session:"

	fieldHeight    = "height"
	fieldSource    = "source"
	fieldName      = "name"
	fieldExpiresAt = "expires_at"
	fieldCreatedAt = "created_at"
)

var (
	_ domain.HeightCache       = (*HeightCache)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// NewClient connects to addr and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// HeightCache stores one hash per user under fitlog:height:<user>.
type HeightCache struct {
	rdb *redis.Client
}

func NewHeightCache(rdb *redis.Client) *HeightCache {
	return &HeightCache{rdb: rdb}
}

func heightKey(userID string) string {
	return heightKeyPrefix + userID
}

// Get returns the cached height, nil if it was never set.
func (c *HeightCache) Get(ctx context.Context, userID string) (*float64, error) {
	val, err := c.rdb.HGet(ctx, heightKey(userID), fieldHeight).Result()
	if errors.Is(err, redis.Nil) || (err == nil && val == "") {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get height: %w: %w", domain.ErrStorage, err)
	}
	h, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.WithError(err).WithField("user", userID).Warn("ignoring malformed cached height")
		return nil, nil
	}
	return &h, nil
}

// Set overwrites the height field and leaves the source field alone.
func (c *HeightCache) Set(ctx context.Context, userID string, height float64) error {
	if err := c.rdb.HSet(ctx, heightKey(userID), fieldHeight, formatFloat(height)).Err(); err != nil {
		return fmt.Errorf("set height: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Ensure creates the user's hash with an empty source if it is missing.
func (c *HeightCache) Ensure(ctx context.Context, userID string) error {
	if err := c.rdb.HSetNX(ctx, heightKey(userID), fieldSource, "0").Err(); err != nil {
		return fmt.Errorf("ensure height entry: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Reconcile adopts the newest measured height when it is newer than the
// measurement the entry was last fed from.
func (c *HeightCache) Reconcile(ctx context.Context, userID string, history []domain.Measurement) error {
	height, sourceID, ok := domain.LatestHeight(history)
	if !ok {
		return c.Ensure(ctx, userID)
	}

	key := heightKey(userID)
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("reconcile height: %w: %w", domain.ErrStorage, err)
	}
	var current int64
	if s, found := fields[fieldSource]; found && s != "" {
		current, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			log.WithError(err).WithField("user", userID).Warn("resetting malformed height source")
			current = 0
		}
	}
	if sourceID <= current {
		return nil
	}

	err = c.rdb.HSet(ctx, key,
		fieldHeight, formatFloat(height),
		fieldSource, strconv.FormatInt(sourceID, 10),
	).Err()
	if err != nil {
		return fmt.Errorf("reconcile height: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// SessionRepo stores one hash per session that expires together with it.
type SessionRepo struct {
	rdb *redis.Client
}

func NewSessionRepo(rdb *redis.Client) *SessionRepo {
	return &SessionRepo{rdb: rdb}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	key := sessionKey(s.Token)
	err := r.rdb.HSet(ctx, key,
		fieldName, s.UserID,
		fieldExpiresAt, strconv.FormatInt(s.ExpiresAt.Unix(), 10),
		fieldCreatedAt, strconv.FormatInt(s.CreatedAt.Unix(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("create session: %w: %w", domain.ErrStorage, err)
	}
	if err := r.rdb.ExpireAt(ctx, key, s.ExpiresAt).Err(); err != nil {
		return fmt.Errorf("expire session: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// GetByToken returns nil, nil for unknown or already evicted sessions.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	fields, err := r.rdb.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w: %w", domain.ErrStorage, err)
	}
	name, ok := fields[fieldName]
	if !ok {
		return nil, nil
	}
	return &domain.Session{
		Token:     token,
		UserID:    name,
		ExpiresAt: parseUnix(fields[fieldExpiresAt]),
		CreatedAt: parseUnix(fields[fieldCreatedAt]),
	}, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
