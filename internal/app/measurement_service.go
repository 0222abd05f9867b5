package app

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fitlog/internal/domain"
	"fitlog/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// Submission holds the raw main-form fields. Empty means absent.
type Submission struct {
	Weight        string
	FatPercentage string
	Height        string
	Date          string
}

// MeasurementService encapsulates measurement-recording use cases.
type MeasurementService struct {
	store   domain.MeasurementRepository
	heights domain.HeightCache
	metrics *metrics.Manager
	now     func() time.Time
}

// NewMeasurementService creates a MeasurementService backed by the given ports.
func NewMeasurementService(store domain.MeasurementRepository, heights domain.HeightCache) *MeasurementService {
	return &MeasurementService{store: store, heights: heights, now: time.Now}
}

// WithClock replaces the clock used for CreatedAt timestamps.
func (s *MeasurementService) WithClock(now func() time.Time) *MeasurementService {
	s.now = now
	return s
}

// WithMetrics counts recorded measurements and height updates on m.
func (s *MeasurementService) WithMetrics(m *metrics.Manager) *MeasurementService {
	s.metrics = m
	return s
}

// Submit applies one main-form submission for userID. A height updates the
// cache on its own; a measurement is appended only when both weight and fat
// percentage are present. today is used when the submission carries no date.
// The returned measurement is nil when nothing was recorded.
func (s *MeasurementService) Submit(ctx context.Context, userID string, sub Submission, today string) (*domain.Measurement, error) {
	height, hasHeight := parseField(userID, "height", sub.Height)
	if hasHeight {
		if err := s.heights.Set(ctx, userID, height); err != nil {
			return nil, fmt.Errorf("set height: %w", err)
		}
		s.metrics.HeightUpdated()
	}

	weight, hasWeight := parseField(userID, "weight", sub.Weight)
	fat, hasFat := parseField(userID, "fat_percentage", sub.FatPercentage)
	if !hasWeight || !hasFat {
		return nil, nil
	}

	m := domain.Measurement{
		UserID:        userID,
		Weight:        weight,
		FatPercentage: fat,
		Date:          strings.TrimSpace(sub.Date),
		CreatedAt:     s.now().UTC(),
	}
	if m.Date == "" {
		m.Date = today
	}
	if hasHeight {
		m.Height = &height
	} else {
		prior, err := s.heights.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get height: %w", err)
		}
		m.Height = prior
	}

	id, err := s.store.Append(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("append measurement: %w", err)
	}
	m.ID = id
	s.metrics.MeasurementRecorded()
	return &m, nil
}

func parseField(userID, name, raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.WithFields(log.Fields{"user": userID, "field": name}).Debugf("ignoring unparseable value %q", raw)
		return 0, false
	}
	return v, true
}
