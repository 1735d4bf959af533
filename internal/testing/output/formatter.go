// Package output prints run progress and result tables for humans.
package output

import (
	"fmt"
	"io"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/format"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/table"
	"github.com/fatih/color"
)

// Formatter provides clean, human-friendly output
type Formatter interface {
	PrintPhase(phase string)
	PrintResult(result metrics.TestResult)
	PrintError(message string, err error)
	PrintTestResults(results []metrics.TestResult)
	PrintSummary(summary *metrics.Summary)
}

type formatter struct {
	writer  io.Writer
	verbose bool

	resultsFormatter *table.ResultsFormatter
	summaryFormatter *table.SummaryFormatter

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	blue   *color.Color
	gray   *color.Color
}

// NewFormatter creates a new output formatter. Per-result lines are only
// printed when verbose is set.
func NewFormatter(
	writer io.Writer,
	verbose bool,
	resultsFormatter *table.ResultsFormatter,
	summaryFormatter *table.SummaryFormatter,
) Formatter {
	return &formatter{
		writer:           writer,
		verbose:          verbose,
		resultsFormatter: resultsFormatter,
		summaryFormatter: summaryFormatter,
		green:            color.New(color.FgGreen),
		red:              color.New(color.FgRed),
		yellow:           color.New(color.FgYellow),
		blue:             color.New(color.FgBlue),
		gray:             color.New(color.FgHiBlack),
	}
}

// PrintPhase prints phase separator
func (f *formatter) PrintPhase(phase string) {
	_, _ = f.blue.Fprintf(f.writer, "\n▸ %s\n", phase)
}

// PrintResult prints a one-line status for a finished test.
func (f *formatter) PrintResult(result metrics.TestResult) {
	if !f.verbose {
		return
	}

	line := fmt.Sprintf("%s (%s ms)", result.Name, format.Millis(result.DurationMS))

	switch result.Status {
	case assertion.StatusPassed:
		_, _ = f.green.Fprintf(f.writer, "✓ %s\n", line)
	case assertion.StatusFailed, assertion.StatusError:
		_, _ = f.red.Fprintf(f.writer, "✗ %s\n", line)
	case assertion.StatusSkipped:
		_, _ = f.gray.Fprintf(f.writer, "○ %s\n", line)
	default:
		_, _ = f.yellow.Fprintf(f.writer, "? %s\n", line)
	}
}

// PrintError prints red X + message + error details
func (f *formatter) PrintError(message string, err error) {
	_, _ = f.red.Fprintf(f.writer, "%s", message)
	if err != nil {
		_, _ = f.red.Fprintf(f.writer, ": %v", err)
	}

	_, _ = fmt.Fprintf(f.writer, "\n")
}

// PrintTestResults prints a table of test results
func (f *formatter) PrintTestResults(results []metrics.TestResult) {
	_, _ = fmt.Fprintln(f.writer, f.resultsFormatter.Format(results))
}

// PrintSummary prints a summary table with aggregate statistics
func (f *formatter) PrintSummary(summary *metrics.Summary) {
	_, _ = fmt.Fprintln(f.writer, f.summaryFormatter.Format(summary))
}
