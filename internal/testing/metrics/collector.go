// Package metrics provides test result collection and aggregation.
package metrics

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAnomalyThreshold is the stddev multiplier beyond which a duration is anomalous.
	DefaultAnomalyThreshold = 1.8

	minAnomalySamples = 3
)

// Collector interface for result collection
type Collector interface {
	Add(result TestResult)
	Results() []TestResult
	AnomalyCount() int
	Summary() *Summary
}

// CollectorOption configures a collector.
type CollectorOption func(*collector)

// WithAnomalyThreshold overrides the stddev multiplier. Non-positive values are ignored.
func WithAnomalyThreshold(threshold float64) CollectorOption {
	return func(c *collector) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithEnvironment attaches run metadata reported in the summary.
func WithEnvironment(env, baseAPIURL string) CollectorOption {
	return func(c *collector) {
		c.env = env
		c.baseAPIURL = baseAPIURL
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) CollectorOption {
	return func(c *collector) {
		c.runID = id
	}
}

// collector implements Collector interface
type collector struct {
	log        logrus.FieldLogger
	mu         sync.RWMutex
	results    []TestResult
	startTime  time.Time
	threshold  float64
	env        string
	baseAPIURL string
	runID      string
	now        func() time.Time
}

// NewCollector creates a new result collector. The wall clock for the run
// starts here.
func NewCollector(log logrus.FieldLogger, opts ...CollectorOption) Collector {
	c := &collector{
		log:       log.WithField("component", "metrics_collector"),
		results:   make([]TestResult, 0, 32),
		threshold: DefaultAnomalyThreshold,
		runID:     uuid.NewString(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.startTime = c.now()

	return c
}

func (c *collector) Add(result TestResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, result)

	c.log.WithFields(logrus.Fields{
		"test":   result.Name,
		"status": result.Status,
	}).Debug("recorded test result")
}

func (c *collector) Results() []TestResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]TestResult, len(c.results))
	copy(result, c.results)

	return result
}

func (c *collector) AnomalyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return countAnomalies(c.results, c.threshold)
}

func (c *collector) Summary() *Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]TestResult, len(c.results))
	copy(results, c.results)

	summary := &Summary{
		RunID:           c.runID,
		Env:             c.env,
		BaseAPIURL:      c.baseAPIURL,
		Total:           len(results),
		AnomalyCount:    countAnomalies(results, c.threshold),
		TotalDurationMS: DurationMS(c.now().Sub(c.startTime)),
		Results:         results,
	}

	for _, r := range results {
		summary.count(r.Status)
	}

	return summary
}

// countAnomalies counts durations further than threshold population
// standard deviations from the mean. Results without a duration are ignored.
func countAnomalies(results []TestResult, threshold float64) int {
	durations := make([]float64, 0, len(results))
	for _, r := range results {
		if r.DurationMS != nil {
			durations = append(durations, *r.DurationMS)
		}
	}

	if len(durations) < minAnomalySamples {
		return 0
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}

	mean := sum / float64(len(durations))

	var variance float64
	for _, d := range durations {
		variance += (d - mean) * (d - mean)
	}

	stddev := math.Sqrt(variance / float64(len(durations)))
	if stddev == 0 {
		return 0
	}

	limit := threshold * stddev
	count := 0

	for _, d := range durations {
		if math.Abs(d-mean) > limit {
			count++
		}
	}

	return count
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
