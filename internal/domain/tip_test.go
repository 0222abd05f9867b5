package domain_test

import (
	"testing"

	"fitlog/internal/domain"
)

func TestFormatMeasurement(t *testing.T) {
	tests := []struct {
		name string
		m    domain.Measurement
		want string
	}{
		{
			"with height",
			domain.Measurement{Date: "2024-01-01", Weight: 70, FatPercentage: 15, Height: ptr(180)},
			"2024-01-01: 70 kg, 15% body fat, height 180 cm",
		},
		{
			"without height",
			domain.Measurement{Date: "2024-01-02", Weight: 69.5, FatPercentage: 14.8},
			"2024-01-02: 69.5 kg, 14.8% body fat, height n/a cm",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.FormatMeasurement(tc.m); got != tc.want {
				t.Errorf("FormatMeasurement() = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestFormatHistory(t *testing.T) {
	history := []domain.Measurement{
		{Date: "2024-01-01", Weight: 80, FatPercentage: 20},
		{Date: "2024-01-08", Weight: 79, FatPercentage: 19.5, Height: ptr(175)},
	}
	want := "2024-01-01: 80 kg, 20% body fat, height n/a cm\n" +
		"2024-01-08: 79 kg, 19.5% body fat, height 175 cm"
	if got := domain.FormatHistory(history); got != want {
		t.Errorf("FormatHistory() = %q; want %q", got, want)
	}
	if got := domain.FormatHistory(nil); got != "" {
		t.Errorf("FormatHistory(nil) = %q; want empty", got)
	}
}
