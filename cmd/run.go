package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/observer"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/report"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/runner"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/testcfg"
	"github.com/agiulucom42-del/synthetic-scout/pkg/interactive"
	"github.com/sirupsen/logrus"
)

var (
	// errTestsFailed makes the process exit 1 without printing anything more.
	errTestsFailed = errors.New("tests failed")
	// errUsage marks invalid command-line input.
	errUsage = errors.New("usage error")
)

// runOptions are the flags of a test run.
type runOptions struct {
	envFile     string
	verbose     bool
	list        bool
	tags        []string
	excludeTags []string
	format      string
	maxWorkers  int
	interactive bool
}

func (o runOptions) validate() error {
	if !report.ValidFormat(o.format) {
		return fmt.Errorf("%w: invalid --format %q (choose from %s)", errUsage, o.format, strings.Join(report.Formats(), ", "))
	}

	if o.maxWorkers < 0 {
		return fmt.Errorf("%w: --max-workers must not be negative", errUsage)
	}

	return nil
}

// run executes one invocation and writes its JSON result to stdout.
func run(ctx context.Context, opts runOptions, stdout, stderr io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}

	a, err := bootstrap(opts.envFile, opts.verbose, stderr)
	if err != nil {
		return err
	}

	if opts.list {
		return writeJSON(stdout, map[string][]registry.Entry{"tests": a.reg.List()})
	}

	include := opts.tags

	if opts.interactive {
		selected, err := interactive.SelectTags(a.reg.Tags())
		if err != nil {
			return err
		}

		include = append(include, selected...)
	}

	cases := a.reg.Select(include, opts.excludeTags)
	if len(cases) == 0 {
		a.log.Warn("no tests matched the selection")

		return writeJSON(stdout, map[string]string{"message": "no tests to run"})
	}

	summary := a.execute(ctx, cases, opts, stderr)

	if summary.Unsuccessful() > 0 {
		if err := writeJSON(stdout, summary); err != nil {
			return err
		}

		return errTestsFailed
	}

	return writeJSON(stdout, summary)
}

// execute runs cases and persists the requested reports.
func (a *app) execute(ctx context.Context, cases []*registry.TestCase, opts runOptions, stderr io.Writer) *metrics.Summary {
	execCfg := testcfg.FromConfig(a.cfg)
	execCfg.Formats = []string{opts.format}

	if opts.maxWorkers > 0 {
		execCfg.MaxWorkers = opts.maxWorkers
	}

	collector := metrics.NewCollector(a.log,
		metrics.WithAnomalyThreshold(execCfg.AnomalyThreshold),
		metrics.WithEnvironment(a.cfg.Env, a.cfg.BaseAPIURL),
	)

	writer := report.NewWriter(a.log, execCfg.ReportsDir)

	r := runner.New(a.log, collector,
		runner.WithTestTimeout(execCfg.TestTimeout),
		runner.WithSummaryWriter(writer),
		runner.WithEnvironment(a.cfg.Env, a.cfg.BaseAPIURL),
	)

	observers := observer.Load(a.cfg, a.log, observerFactories(stderr, opts.verbose)...)

	summary := r.Run(ctx, cases, execCfg.Workers(), observers)

	outputs, err := writer.Save(summary, execCfg.Formats)
	if err != nil {
		a.log.WithError(err).Error("failed to write reports")
	}

	// summary.json is written on every run, whatever formats were asked for.
	if summary.SummaryFile != "" {
		if outputs == nil {
			outputs = make(map[string]string, 1)
		}

		outputs[report.FormatJSON] = summary.SummaryFile
	}

	summary.Outputs = outputs

	a.log.WithFields(logrus.Fields{
		"outputs": len(outputs),
		"dir":     execCfg.ReportsDir,
	}).Debug("reports written")

	return summary
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
