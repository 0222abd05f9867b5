package app_test

import (
	"testing"

	"fitlog/internal/app"
	"fitlog/internal/domain"
)

func TestSummarize_TooShort(t *testing.T) {
	svc := app.NewTrendService()
	if got := svc.Summarize(nil); got != nil {
		t.Errorf("expected nil trend for empty history, got %v", got)
	}
	if got := svc.Summarize([]domain.Measurement{{Weight: 80}}); got != nil {
		t.Errorf("expected nil trend for one entry, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	svc := app.NewTrendService()
	got := svc.Summarize([]domain.Measurement{
		{Date: "2024-01-01", Weight: 82.4, FatPercentage: 24},
		{Date: "2024-01-08", Weight: 81.9, FatPercentage: 23.7},
		{Date: "2024-01-15", Weight: 81.1, FatPercentage: 23.1},
	})
	if got == nil {
		t.Fatal("expected trend")
	}
	if got.Entries != 3 || got.Since != "2024-01-01" {
		t.Errorf("unexpected header: %+v", got)
	}
	if got.WeightDelta != -1.3 {
		t.Errorf("expected weight delta -1.3, got %v", got.WeightDelta)
	}
	if got.FatDelta != -0.9 {
		t.Errorf("expected fat delta -0.9, got %v", got.FatDelta)
	}
}
