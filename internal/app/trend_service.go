package app

import (
	"math"

	"fitlog/internal/domain"
)

// TrendService derives a first-to-latest summary from a measurement history.
type TrendService struct{}

// NewTrendService creates a TrendService.
func NewTrendService() *TrendService {
	return &TrendService{}
}

// Trend compares the oldest and newest measurement of a history.
type Trend struct {
	Entries     int     `json:"entries"`
	Since       string  `json:"since"`
	WeightDelta float64 `json:"weightDelta"`
	FatDelta    float64 `json:"fatDelta"`
}

// Summarize returns nil for histories with fewer than two entries.
func (s *TrendService) Summarize(history []domain.Measurement) *Trend {
	if len(history) < 2 {
		return nil
	}
	first, last := history[0], history[len(history)-1]
	return &Trend{
		Entries:     len(history),
		Since:       first.Date,
		WeightDelta: round1(last.Weight - first.Weight),
		FatDelta:    round1(last.FatPercentage - first.FatPercentage),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
