package table

import (
	"fmt"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/format"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
)

const maxDetailsWidth = 60

// ResultsFormatter formats test results as a table.
type ResultsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewResultsFormatter creates a new results table formatter.
func NewResultsFormatter(log logrus.FieldLogger, renderer Renderer) *ResultsFormatter {
	return &ResultsFormatter{
		log:      log.WithField("component", "table.results_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts test results into a table followed by a failure detail section.
func (f *ResultsFormatter) Format(results []metrics.TestResult) string {
	if len(results) == 0 {
		return "No tests executed"
	}

	var (
		headers  = []string{"Test", "Status", "Duration (ms)", "Tags", "Details"}
		rows     = make([][]string, 0, len(results))
		failures = make([]metrics.TestResult, 0)
	)

	for _, r := range results {
		details := f.colors.Muted(format.Truncate(r.Details, maxDetailsWidth))

		if r.Status == assertion.StatusFailed || r.Status == assertion.StatusError {
			failures = append(failures, r)
		}

		rows = append(rows, []string{
			r.Name,
			f.colors.FormatStatus(r.Status),
			format.Millis(r.DurationMS),
			strings.Join(r.Tags, ","),
			details,
		})
	}

	output := "\n" + f.colors.Header("▸ Test Results") + "\n\n" + f.renderer.Render(headers, rows)

	if len(failures) > 0 {
		output += f.formatFailureDetails(failures)
	}

	return output
}

// formatFailureDetails lists the full details of every FAILED and ERROR result.
func (f *ResultsFormatter) formatFailureDetails(failures []metrics.TestResult) string {
	var builder strings.Builder

	builder.WriteString("\n\n" + f.colors.Header("▸ Failed Test Details") + "\n\n")

	for i, r := range failures {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s (%s ms)\n", f.colors.Bold(r.Name), format.Millis(r.DurationMS)))

		details := r.Details
		if details == "" {
			details = "no details available"
		}

		for _, line := range strings.Split(strings.TrimRight(details, "\n"), "\n") {
			builder.WriteString(fmt.Sprintf("  %s %s\n", f.colors.Failure("│"), line))
		}
	}

	return builder.String()
}
