package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: -time.Second, want: "0:00"},
		{d: 0, want: "0:00"},
		{d: 65 * time.Second, want: "1:05"},
		{d: 10*time.Minute + time.Second, want: "10:01"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatVolts(t *testing.T) {
	if got := FormatVolts(1.5); got != "1.500000" {
		t.Fatalf("FormatVolts(1.5) = %q", got)
	}
	if got := FormatVolts(-0.25); got != "-0.250000" {
		t.Fatalf("FormatVolts(-0.25) = %q", got)
	}
}

func TestFormatSpan(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 2 * time.Second, want: "2s"},
		{d: 1500 * time.Millisecond, want: "1.5s"},
		{d: 79 * time.Millisecond, want: "79ms"},
		{d: 100 * time.Microsecond, want: "100µs"},
		{d: 500, want: "500ns"},
	}
	for _, tt := range tests {
		if got := FormatSpan(tt.d); got != tt.want {
			t.Fatalf("FormatSpan(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
