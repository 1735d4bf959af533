// Package format provides shared formatting utilities for human-readable output.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Duration formats a duration for human-readable output.
// Handles microseconds, milliseconds, seconds, and minutes.
func Duration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Millis formats an optional millisecond value with two decimals, or "-" when absent.
func Millis(ms *float64) string {
	if ms == nil {
		return "-"
	}

	return fmt.Sprintf("%.2f", *ms)
}

// MillisDuration renders fractional milliseconds through Duration.
func MillisDuration(ms float64) string {
	return Duration(time.Duration(ms * float64(time.Millisecond)))
}

// Truncate shortens s to max runes, ending with "..." when cut. Only the first
// line of multi-line text is kept.
func Truncate(s string, max int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}

	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}
