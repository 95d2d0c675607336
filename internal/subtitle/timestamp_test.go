package subtitle

import (
	"errors"
	"testing"

	"transcriber/internal/services"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0.0, "00:00:00,000"},
		{4.1205, "00:00:04,120"},
		{59.9999, "00:00:59,999"},
		{61.5, "00:01:01,500"},
		{3661.25, "01:01:01,250"},
		// Hours are unbounded, not wrapped at 24.
		{90000.0, "25:00:00,000"},
	}
	for _, tc := range cases {
		got, err := FormatTimestamp(tc.seconds)
		if err != nil {
			t.Fatalf("FormatTimestamp(%v) returned error: %v", tc.seconds, err)
		}
		if got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatTimestampNegative(t *testing.T) {
	_, err := FormatTimestamp(-1.0)
	if err == nil {
		t.Fatal("expected error for negative seconds")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFormatHMS(t *testing.T) {
	if got := FormatHMS(3725.9); got != "01:02:05" {
		t.Fatalf("FormatHMS(3725.9) = %q", got)
	}
	if got := FormatHMS(0); got != "00:00:00" {
		t.Fatalf("FormatHMS(0) = %q", got)
	}
	if got := FormatHMS(-3); got != "00:00:00" {
		t.Fatalf("FormatHMS(-3) = %q", got)
	}
}
