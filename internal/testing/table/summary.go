package table

import (
	"fmt"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/format"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats summary statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts a run summary into a formatted table string.
func (f *SummaryFormatter) Format(summary *metrics.Summary) string {
	if summary == nil {
		return ""
	}

	passRate := summary.PassRate()

	passedValue := fmt.Sprintf("%d (%s)", summary.Passed, f.colors.FormatPercentage(passRate))
	if summary.Passed == summary.Total {
		passedValue = f.colors.Success(fmt.Sprintf("%d (%.1f%%)", summary.Passed, passRate))
	}

	anomalies := fmt.Sprintf("%d", summary.AnomalyCount)
	if summary.AnomalyCount > 0 {
		anomalies = f.colors.Warning(anomalies)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Run ID", f.colors.Muted(summary.RunID)},
			{"Environment", summary.Env},
			{"Total Tests", f.colors.Bold(fmt.Sprintf("%d", summary.Total))},
			{"Passed", passedValue},
			{"Failed", f.colors.FormatCount(summary.Failed)},
			{"Errors", f.colors.FormatCount(summary.Error)},
			{"Skipped", f.colors.Muted(fmt.Sprintf("%d", summary.Skipped))},
			{"Anomalies", anomalies},
			{"Total Duration", format.MillisDuration(summary.TotalDurationMS)},
		}
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.Render(headers, rows)
}
