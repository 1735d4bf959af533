package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func resultWithMS(name string, status assertion.Status, ms float64) TestResult {
	return TestResult{Name: name, Status: status, DurationMS: &ms}
}

func TestCountAnomalies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		durations []float64
		threshold float64
		expected  int
	}{
		{
			name:      "fewer than three samples",
			durations: []float64{1, 1000},
			threshold: DefaultAnomalyThreshold,
			expected:  0,
		},
		{
			name:      "zero stddev",
			durations: []float64{50, 50, 50, 50},
			threshold: DefaultAnomalyThreshold,
			expected:  0,
		},
		{
			name:      "single outlier",
			durations: []float64{10, 10, 10, 10, 100},
			threshold: DefaultAnomalyThreshold,
			expected:  1,
		},
		{
			name:      "higher threshold hides outlier",
			durations: []float64{10, 10, 10, 10, 100},
			threshold: 2.5,
			expected:  0,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := make([]TestResult, 0, len(tt.durations))
			for _, d := range tt.durations {
				results = append(results, resultWithMS("t", assertion.StatusPassed, d))
			}

			assert.Equal(t, tt.expected, countAnomalies(results, tt.threshold))
		})
	}
}

func TestCountAnomalies_IgnoresMissingDurations(t *testing.T) {
	t.Parallel()

	results := []TestResult{
		resultWithMS("a", assertion.StatusPassed, 10),
		resultWithMS("b", assertion.StatusPassed, 1000),
		{Name: "c", Status: assertion.StatusError},
	}

	assert.Equal(t, 0, countAnomalies(results, DefaultAnomalyThreshold))
}

func TestCollector_Summary(t *testing.T) {
	t.Parallel()

	c := NewCollector(newTestLogger(),
		WithEnvironment("staging", "https://api.example.com"),
		WithRunID("run-1"),
	).(*collector)

	start := c.startTime
	c.now = func() time.Time { return start.Add(1500 * time.Millisecond) }

	c.Add(resultWithMS("a", assertion.StatusPassed, 10))
	c.Add(resultWithMS("b", assertion.StatusFailed, 10))
	c.Add(resultWithMS("c", assertion.StatusError, 10))
	c.Add(resultWithMS("d", assertion.StatusSkipped, 10))
	c.Add(resultWithMS("e", assertion.StatusPassed, 100))

	summary := c.Summary()
	require.NotNil(t, summary)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, "staging", summary.Env)
	assert.Equal(t, "https://api.example.com", summary.BaseAPIURL)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Error)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Unsuccessful())
	assert.Equal(t, 1, summary.AnomalyCount)
	assert.InDelta(t, 1500.0, summary.TotalDurationMS, 0.001)
	assert.InDelta(t, 40.0, summary.PassRate(), 0.001)
	assert.Len(t, summary.Results, 5)
}

func TestCollector_ResultsAreCopies(t *testing.T) {
	t.Parallel()

	c := NewCollector(newTestLogger())
	c.Add(resultWithMS("a", assertion.StatusPassed, 1))

	results := c.Results()
	results[0].Name = "mutated"

	assert.Equal(t, "a", c.Results()[0].Name)
	assert.NotEmpty(t, c.Summary().RunID)
}

func TestCollector_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	c := NewCollector(newTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			c.Add(resultWithMS("t", assertion.StatusPassed, 1))
		}()
	}

	wg.Wait()

	assert.Len(t, c.Results(), 50)
	assert.Equal(t, 50, c.Summary().Passed)
}

func TestNewTestResult(t *testing.T) {
	t.Parallel()

	tags := []string{"smoke"}
	r := NewTestResult("health", tags, assertion.Failed("boom"), 250*time.Millisecond)
	tags[0] = "mutated"

	require.NotNil(t, r.DurationMS)
	assert.InDelta(t, 250.0, *r.DurationMS, 0.001)
	assert.Equal(t, assertion.StatusFailed, r.Status)
	assert.Equal(t, "boom", r.Details)
	assert.Equal(t, []string{"smoke"}, r.Tags)
	assert.Equal(t, 250*time.Millisecond, r.Duration())
	assert.Equal(t, time.Duration(0), TestResult{}.Duration())
}
