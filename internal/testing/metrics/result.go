package metrics

import (
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
)

// TestResult captures the outcome of a single test invocation.
type TestResult struct {
	Name       string           `json:"name"`
	Status     assertion.Status `json:"status"`
	DurationMS *float64         `json:"duration_ms"`
	Details    string           `json:"details"`
	Tags       []string         `json:"tags"`
}

// NewTestResult builds a result from an outcome and the measured duration.
func NewTestResult(name string, tags []string, outcome assertion.Outcome, elapsed time.Duration) TestResult {
	ms := DurationMS(elapsed)

	copied := make([]string, len(tags))
	copy(copied, tags)

	return TestResult{
		Name:       name,
		Status:     outcome.Status,
		DurationMS: &ms,
		Details:    outcome.Details,
		Tags:       copied,
	}
}

// Duration returns the recorded duration, or zero if none was measured.
func (r TestResult) Duration() time.Duration {
	if r.DurationMS == nil {
		return 0
	}

	return time.Duration(*r.DurationMS * float64(time.Millisecond))
}

// DurationMS converts d to fractional milliseconds.
func DurationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
