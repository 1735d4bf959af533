package table

import (
	"testing"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func plainLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func ms(v float64) *float64 {
	return &v
}

func TestResultsFormatter_Format(t *testing.T) {
	log := plainLogger()
	f := NewResultsFormatter(log, NewRenderer(log))
	f.colors = &ColorHelper{}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No tests executed", f.Format(nil))
	})

	t.Run("rows and failure details", func(t *testing.T) {
		out := f.Format([]metrics.TestResult{
			{Name: "API Healthcheck", Status: assertion.StatusPassed, DurationMS: ms(12.5), Tags: []string{"smoke", "api"}},
			{Name: "API Auth Login", Status: assertion.StatusFailed, DurationMS: ms(40), Details: "expected 200, got 401"},
			{Name: "SSL Certificate Health", Status: assertion.StatusSkipped, Details: "no endpoints configured"},
		})

		assert.Contains(t, out, "Test Results")
		assert.Contains(t, out, "API Healthcheck")
		assert.Contains(t, out, "12.50")
		assert.Contains(t, out, "smoke,api")
		assert.Contains(t, out, "✗ FAIL")
		assert.Contains(t, out, "○ SKIP")
		assert.Contains(t, out, "Failed Test Details")
		assert.Contains(t, out, "│ expected 200, got 401")
	})

	t.Run("no failure section when all pass", func(t *testing.T) {
		out := f.Format([]metrics.TestResult{
			{Name: "ok", Status: assertion.StatusPassed, DurationMS: ms(1)},
		})

		assert.NotContains(t, out, "Failed Test Details")
	})
}

func TestSummaryFormatter_Format(t *testing.T) {
	log := plainLogger()
	f := NewSummaryFormatter(log, NewRenderer(log))
	f.colors = &ColorHelper{}

	assert.Empty(t, f.Format(nil))

	out := f.Format(&metrics.Summary{
		RunID:           "run-1",
		Env:             "dev",
		Total:           4,
		Passed:          2,
		Failed:          1,
		Error:           1,
		AnomalyCount:    1,
		TotalDurationMS: 1500,
	})

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2 (50.0%)")
	assert.Contains(t, out, "1.5s")
}

func TestRenderer_Render(t *testing.T) {
	out := NewRenderer(plainLogger()).Render(
		[]string{"Name", "Status"},
		[][]string{{"API Healthcheck", "PASSED"}, {"API Auth Login", "FAILED"}},
	)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "API Healthcheck")
	assert.Contains(t, out, "│")
	assert.Contains(t, out, "FAILED")
}
