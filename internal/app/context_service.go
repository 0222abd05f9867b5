// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"time"

	"fitlog/internal/domain"
)

const dayLayout = "2006-01-02"

// MainContext is the per-request view model of the main page.
type MainContext struct {
	User       string
	Today      string
	Height     *float64
	History    []domain.Measurement
	Trend      *Trend
	FitnessTip string
}

// ContextService assembles MainContext from the measurement store and the
// height cache.
type ContextService struct {
	store   domain.MeasurementRepository
	heights domain.HeightCache
	trends  *TrendService
	now     func() time.Time
}

// NewContextService creates a ContextService backed by the given ports.
func NewContextService(store domain.MeasurementRepository, heights domain.HeightCache, trends *TrendService) *ContextService {
	return &ContextService{store: store, heights: heights, trends: trends, now: time.Now}
}

// WithClock replaces the clock used to resolve "today".
func (s *ContextService) WithClock(now func() time.Time) *ContextService {
	s.now = now
	return s
}

// Today returns the server's current local day as YYYY-MM-DD.
func (s *ContextService) Today() string {
	return s.now().In(time.Local).Format(dayLayout)
}

// Build loads the user's history, reconciles the cached height against it and
// returns the resulting view model. Call it again after any mutation; a
// context built before a POST does not reflect it.
func (s *ContextService) Build(ctx context.Context, userID string) (*MainContext, error) {
	today := s.Today()

	history, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	if err := s.heights.Reconcile(ctx, userID, history); err != nil {
		return nil, fmt.Errorf("reconcile height: %w", err)
	}
	height, err := s.heights.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get height: %w", err)
	}

	mc := &MainContext{
		User:    userID,
		Today:   today,
		Height:  height,
		History: history,
	}
	if s.trends != nil {
		mc.Trend = s.trends.Summarize(history)
	}
	return mc, nil
}
