package metrics

import "github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"

// Summary is the aggregate view of a run.
type Summary struct {
	RunID           string            `json:"run_id"`
	Env             string            `json:"env"`
	BaseAPIURL      string            `json:"base_api_url"`
	Total           int               `json:"total"`
	Passed          int               `json:"passed"`
	Failed          int               `json:"failed"`
	Error           int               `json:"error"`
	Skipped         int               `json:"skipped"`
	AnomalyCount    int               `json:"anomaly_count"`
	TotalDurationMS float64           `json:"total_duration_ms"`
	Results         []TestResult      `json:"results"`
	SummaryFile     string            `json:"summary_file,omitempty"`
	Outputs         map[string]string `json:"outputs,omitempty"`
}

// Unsuccessful returns the number of FAILED plus ERROR results.
func (s *Summary) Unsuccessful() int {
	return s.Failed + s.Error
}

// PassRate returns the percentage of passed results.
func (s *Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Passed) / float64(s.Total) * 100.0
}

func (s *Summary) count(status assertion.Status) {
	switch status {
	case assertion.StatusPassed:
		s.Passed++
	case assertion.StatusFailed:
		s.Failed++
	case assertion.StatusError:
		s.Error++
	case assertion.StatusSkipped:
		s.Skipped++
	}
}
