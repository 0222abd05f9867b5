// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sync"

	"fitlog/internal/domain"
)

// DB implements an in-memory measurement store.
type DB struct {
	mu           sync.Mutex
	measurements []domain.Measurement
	idCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.MeasurementRepository = (*DB)(nil)
var _ domain.HeightCache = (*HeightCache)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- MeasurementRepository ---

// Append adds a measurement at the end of the log.
func (db *DB) Append(ctx context.Context, m domain.Measurement) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.idCounter++
	m.ID = db.idCounter
	if m.Height != nil {
		h := *m.Height
		m.Height = &h
	}
	db.measurements = append(db.measurements, m)
	return m.ID, nil
}

// ListByUser returns the user's measurements in insertion order.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Measurement, 0)
	for _, m := range db.measurements {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- HeightCache ---

// HeightCache is the process-wide map from user to last-known height.
// Concurrent writers for the same user race with last-write-wins.
type HeightCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.HeightEntry
}

// NewHeightCache creates an empty height cache.
func NewHeightCache() *HeightCache {
	return &HeightCache{entries: make(map[string]*domain.HeightEntry)}
}

// Get returns the cached height or nil.
func (c *HeightCache) Get(ctx context.Context, userID string) (*float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[userID]
	if !ok || e.Height == nil {
		return nil, nil
	}
	h := *e.Height
	return &h, nil
}

// Set overwrites the cached height.
func (c *HeightCache) Set(ctx context.Context, userID string, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry(userID).Height = &height
	return nil
}

// Ensure creates an empty entry for userID.
func (c *HeightCache) Ensure(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry(userID)
	return nil
}

// Reconcile adopts the newest measured height if it is newer than the
// measurement that produced the current value.
func (c *HeightCache) Reconcile(ctx context.Context, userID string, history []domain.Measurement) error {
	height, sourceID, ok := domain.LatestHeight(history)

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(userID)
	if ok && sourceID > e.SourceID {
		e.Height = &height
		e.SourceID = sourceID
	}
	return nil
}

// entry returns the entry for userID, creating it. Callers hold c.mu.
func (c *HeightCache) entry(userID string) *domain.HeightEntry {
	e, ok := c.entries[userID]
	if !ok {
		e = &domain.HeightEntry{}
		c.entries[userID] = e
	}
	return e
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewSessionRepo creates a new session repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]domain.Session)}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = s
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[token]; ok {
		return &s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
