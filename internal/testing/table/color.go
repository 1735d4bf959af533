package table

import (
	"strconv"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/fatih/color"
)

// ColorHelper colours table cells. It is a no-op when color.NoColor is set,
// which fatih/color does for non-terminal output.
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

func (c *ColorHelper) paint(text string, attrs ...color.Attribute) string {
	if !c.enabled {
		return text
	}

	return color.New(attrs...).Sprint(text)
}

// Success returns green text.
func (c *ColorHelper) Success(text string) string { return c.paint(text, color.FgGreen) }

// Failure returns red text.
func (c *ColorHelper) Failure(text string) string { return c.paint(text, color.FgRed) }

// Warning returns yellow text.
func (c *ColorHelper) Warning(text string) string { return c.paint(text, color.FgYellow) }

// Muted returns gray text.
func (c *ColorHelper) Muted(text string) string { return c.paint(text, color.FgHiBlack) }

// Bold returns bold text.
func (c *ColorHelper) Bold(text string) string { return c.paint(text, color.Bold) }

// Header returns bold cyan text for section headers.
func (c *ColorHelper) Header(text string) string { return c.paint(text, color.FgCyan, color.Bold) }

// FormatStatus returns the status cell for a result.
func (c *ColorHelper) FormatStatus(status assertion.Status) string {
	switch status {
	case assertion.StatusPassed:
		return c.Success("✓ PASS")
	case assertion.StatusFailed:
		return c.Failure("✗ FAIL")
	case assertion.StatusError:
		return c.Failure("✗ ERROR")
	case assertion.StatusSkipped:
		return c.Muted("○ SKIP")
	default:
		return c.Muted(string(status))
	}
}

// FormatCount renders a failure count, red when non-zero.
func (c *ColorHelper) FormatCount(count int) string {
	text := strconv.Itoa(count)
	if count > 0 {
		return c.Failure(text)
	}

	return c.Success(text)
}

// FormatPercentage renders a pass rate: green at 100, yellow from 90, red below.
func (c *ColorHelper) FormatPercentage(value float64) string {
	text := strconv.FormatFloat(value, 'f', 1, 64) + "%"

	switch {
	case value >= 100:
		return c.Success(text)
	case value >= 90:
		return c.Warning(text)
	default:
		return c.Failure(text)
	}
}
