package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NoDataTip is shown when a user asks for a tip before recording anything.
	NoDataTip = "There is no body data yet. Please enter your weight and body-fat percentage first."
	// FallbackTip replaces a tip the text-generation service failed to deliver.
	FallbackTip = "The tip could not be loaded. Please try again later."
)

// CompletionRequest is a one-shot prompt for an external text generator.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

//go:generate mockgen -destination=../app/mock_completer_test.go -package=app_test fitlog/internal/domain Completer

// Completer is the port for the external text-generation service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// FormatMeasurement renders m as a single history line:
// "<date>: <weight> kg, <fat>% body fat, height <height|n/a> cm".
func FormatMeasurement(m Measurement) string {
	height := "n/a"
	if m.Height != nil {
		height = formatFloat(*m.Height)
	}
	return fmt.Sprintf("%s: %s kg, %s%% body fat, height %s cm",
		m.Date, formatFloat(m.Weight), formatFloat(m.FatPercentage), height)
}

// FormatHistory renders history one measurement per line, oldest first.
func FormatHistory(history []Measurement) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, FormatMeasurement(m))
	}
	return strings.Join(lines, "\n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
