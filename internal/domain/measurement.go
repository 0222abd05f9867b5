// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrStorage marks a failure of the persistence layer. Adapters wrap driver
// errors with it so callers can tell storage faults from everything else.
var ErrStorage = errors.New("storage error")

// Measurement is one recorded body-composition sample.
type Measurement struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"name"`
	Weight        float64   `json:"weight"`
	FatPercentage float64   `json:"fatPercentage"`
	Height        *float64  `json:"height"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MeasurementRepository is the port for measurement persistence.
type MeasurementRepository interface {
	// Append stores m at the end of the log and returns its new ID.
	Append(ctx context.Context, m Measurement) (int64, error)
	// ListByUser returns every measurement of userID in creation order.
	ListByUser(ctx context.Context, userID string) ([]Measurement, error)
}

// HeightEntry is the cached "current height" of a user. SourceID is the ID of
// the measurement that last produced Height, or 0 if none did.
type HeightEntry struct {
	Height   *float64
	SourceID int64
}

// HeightCache is the port for the per-user last-known height.
type HeightCache interface {
	Get(ctx context.Context, userID string) (*float64, error)
	// Set overwrites the height without touching the entry's SourceID.
	Set(ctx context.Context, userID string, height float64) error
	// Ensure creates an empty entry for userID if there is none.
	Ensure(ctx context.Context, userID string) error
	// Reconcile adopts the height of the newest measurement in history that
	// has one, provided it is newer than the entry's SourceID.
	Reconcile(ctx context.Context, userID string, history []Measurement) error
}

// LatestHeight returns the most recent measurement in history carrying a
// height. ok is false when no measurement has one.
func LatestHeight(history []Measurement) (height float64, sourceID int64, ok bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if h := history[i].Height; h != nil {
			return *h, history[i].ID, true
		}
	}
	return 0, 0, false
}
