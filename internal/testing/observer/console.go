package observer

import (
	"context"
	"io"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/output"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/table"
	"github.com/sirupsen/logrus"
)

type console struct {
	log       logrus.FieldLogger
	formatter output.Formatter
}

// NewConsole creates an observer that logs run progress and prints the
// result and summary tables to w when the run finishes.
func NewConsole(log logrus.FieldLogger, w io.Writer, verbose bool) Observer {
	renderer := table.NewRenderer(log)

	return &console{
		log: log.WithField("component", "console_observer"),
		formatter: output.NewFormatter(
			w,
			verbose,
			table.NewResultsFormatter(log, renderer),
			table.NewSummaryFormatter(log, renderer),
		),
	}
}

// ConsoleFactory returns a factory for a console observer writing to w.
func ConsoleFactory(w io.Writer, verbose bool) Factory {
	return func(_ *config.Config, log logrus.FieldLogger) (Observer, error) {
		return NewConsole(log, w, verbose), nil
	}
}

func (c *console) OnStart(_ context.Context, info RunInfo) {
	c.log.WithFields(logrus.Fields{
		"env":      info.Env,
		"base_url": info.BaseURL,
		"tests":    info.TestCount,
	}).Info("test run started")
	c.formatter.PrintPhase("Running tests")
}

func (c *console) OnTestResult(_ context.Context, result metrics.TestResult) {
	c.log.WithFields(logrus.Fields{
		"test":   result.Name,
		"status": result.Status,
	}).Debug("test result")
	c.formatter.PrintResult(result)
}

func (c *console) OnFinish(_ context.Context, summary *metrics.Summary) {
	c.log.WithFields(logrus.Fields{
		"total":     summary.Total,
		"passed":    summary.Passed,
		"failed":    summary.Failed,
		"error":     summary.Error,
		"skipped":   summary.Skipped,
		"anomalies": summary.AnomalyCount,
	}).Info("test run finished")

	c.formatter.PrintTestResults(summary.Results)
	c.formatter.PrintSummary(summary)
}

var _ Observer = (*console)(nil)
