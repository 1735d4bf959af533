// Package testcfg provides test execution configuration.
// This package defines operational parameters for how tests execute
// (worker counts, timeouts, report locations) rather than what tests to run.
package testcfg

import (
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
)

// TestConfig holds test execution operational parameters.
// This configures how tests execute rather than what tests to run
// (see testdef.CheckDefinition and the registry).
type TestConfig struct {
	// Execution
	MaxWorkers  int
	TestTimeout time.Duration

	// Aggregation
	AnomalyThreshold float64

	// Output
	ReportsDir string
	Formats    []string
}

// DefaultTestConfig returns a TestConfig with default values for all test execution parameters.
func DefaultTestConfig() *TestConfig {
	return &TestConfig{
		MaxWorkers:       config.DefaultMaxWorkers,
		TestTimeout:      0,
		AnomalyThreshold: config.DefaultAnomalyThreshold,
		ReportsDir:       config.DefaultReportsDir,
		Formats:          []string{"json"},
	}
}

// FromConfig derives execution parameters from the environment configuration.
// Unset values keep their defaults.
func FromConfig(cfg *config.Config) *TestConfig {
	c := DefaultTestConfig()

	if cfg.MaxWorkers > 0 {
		c.MaxWorkers = cfg.MaxWorkers
	}

	if cfg.TestTimeout > 0 {
		c.TestTimeout = cfg.TestTimeout
	}

	if cfg.AnomalyThreshold > 0 {
		c.AnomalyThreshold = cfg.AnomalyThreshold
	}

	if cfg.ReportsDir != "" {
		c.ReportsDir = cfg.ReportsDir
	}

	return c
}

// Workers returns MaxWorkers clamped to at least one.
func (c *TestConfig) Workers() int {
	if c.MaxWorkers < 1 {
		return 1
	}

	return c.MaxWorkers
}
