package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatVolts formats a reading with six decimal places.
func FormatVolts(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// FormatSpan formats a short time span with the largest unit that keeps it
// at or above one: 2s, 250ms, 80µs.
func FormatSpan(d time.Duration) string {
	switch {
	case d >= time.Second:
		return trimFloat(d.Seconds()) + "s"
	case d >= time.Millisecond:
		return trimFloat(float64(d)/float64(time.Millisecond)) + "ms"
	case d >= time.Microsecond:
		return trimFloat(float64(d)/float64(time.Microsecond)) + "µs"
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
