// Package runner executes registered test cases on a bounded worker pool.
package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/observer"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner executes test cases and aggregates their results.
type Runner interface {
	// Run executes cases with at most maxWorkers in flight. It returns nil
	// without notifying observers when cases is empty.
	Run(ctx context.Context, cases []*registry.TestCase, maxWorkers int, observers []observer.Observer) *metrics.Summary
}

// SummaryWriter persists a summary and returns where it was written.
type SummaryWriter interface {
	WriteSummary(summary *metrics.Summary) (string, error)
}

// Option configures a runner.
type Option func(*runner)

// WithTestTimeout bounds each test body. Zero disables the bound.
func WithTestTimeout(d time.Duration) Option {
	return func(r *runner) {
		r.testTimeout = d
	}
}

// WithSummaryWriter persists the summary before OnFinish is delivered.
func WithSummaryWriter(w SummaryWriter) Option {
	return func(r *runner) {
		r.writer = w
	}
}

// WithEnvironment sets the run metadata passed to OnStart.
func WithEnvironment(env, baseURL string) Option {
	return func(r *runner) {
		r.env = env
		r.baseURL = baseURL
	}
}

type runner struct {
	log         logrus.FieldLogger
	collector   metrics.Collector
	testTimeout time.Duration
	writer      SummaryWriter
	env         string
	baseURL     string

	// notifyMu serializes observer calls.
	notifyMu sync.Mutex
}

// New creates a runner that appends results to collector.
func New(log logrus.FieldLogger, collector metrics.Collector, opts ...Option) Runner {
	r := &runner{
		log:       log.WithField("component", "runner"),
		collector: collector,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *runner) Run(ctx context.Context, cases []*registry.TestCase, maxWorkers int, observers []observer.Observer) *metrics.Summary {
	if len(cases) == 0 {
		r.log.Warn("no tests to run")

		return nil
	}

	if maxWorkers < 1 {
		maxWorkers = 1
	}

	r.log.WithFields(logrus.Fields{
		"env":         r.env,
		"base_url":    r.baseURL,
		"tests":       len(cases),
		"max_workers": maxWorkers,
	}).Info("running tests")

	info := observer.RunInfo{Env: r.env, BaseURL: r.baseURL, TestCount: len(cases)}
	r.notify(observers, "OnStart", func(o observer.Observer) {
		o.OnStart(ctx, info)
	})

	var (
		g   errgroup.Group
		sem = make(chan struct{}, maxWorkers)
	)

	for _, tc := range cases {
		tc := tc

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				r.record(ctx, observers, metrics.TestResult{
					Name:    tc.Name,
					Status:  assertion.StatusSkipped,
					Details: "run cancelled before test started",
					Tags:    append([]string{}, tc.Tags...),
				})

				return nil
			}

			r.record(ctx, observers, r.execute(ctx, tc))

			return nil
		})
	}

	_ = g.Wait()

	summary := r.collector.Summary()

	if r.writer != nil {
		path, err := r.writer.WriteSummary(summary)
		if err != nil {
			r.log.WithError(err).Error("failed to persist summary")
		} else {
			summary.SummaryFile = path
		}
	}

	r.notify(observers, "OnFinish", func(o observer.Observer) {
		o.OnFinish(ctx, summary)
	})

	r.log.WithFields(logrus.Fields{
		"total":   summary.Total,
		"passed":  summary.Passed,
		"failed":  summary.Failed,
		"error":   summary.Error,
		"skipped": summary.Skipped,
	}).Info("run complete")

	return summary
}

// execute runs one test body in isolation and converts its outcome to a result.
func (r *runner) execute(ctx context.Context, tc *registry.TestCase) metrics.TestResult {
	log := r.log.WithField("test", tc.Name)
	log.Debug("starting test")

	var (
		outcome assertion.Outcome
		start   = time.Now()
		elapsed time.Duration
	)

	if r.testTimeout > 0 {
		outcome, elapsed = r.executeWithTimeout(ctx, tc, start)
	} else {
		outcome = invoke(ctx, tc.Func)
		elapsed = time.Since(start)
	}

	outcome = normalize(outcome)

	log.WithFields(logrus.Fields{
		"status":   outcome.Status,
		"duration": elapsed,
	}).Debug("test finished")

	return metrics.NewTestResult(tc.Name, tc.Tags, outcome, elapsed)
}

// executeWithTimeout gives the body a deadline context. A body still running
// at the deadline is abandoned and reported as ERROR.
func (r *runner) executeWithTimeout(ctx context.Context, tc *registry.TestCase, start time.Time) (assertion.Outcome, time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, r.testTimeout)

	done := make(chan assertion.Outcome, 1)

	go func() {
		defer cancel()
		done <- invoke(runCtx, tc.Func)
	}()

	timer := time.NewTimer(r.testTimeout)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome, time.Since(start)
	case <-timer.C:
		r.log.WithField("test", tc.Name).Warn("test exceeded timeout, abandoning")

		return assertion.Outcome{
			Status:  assertion.StatusError,
			Details: fmt.Sprintf("timed out after %s", r.testTimeout),
		}, time.Since(start)
	}
}

// invoke calls fn, converting a panic into an ERROR outcome.
func invoke(ctx context.Context, fn assertion.Func) (outcome assertion.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = assertion.Outcome{
				Status:  assertion.StatusError,
				Details: fmt.Sprintf("panic: %v\n%s", rec, debug.Stack()),
			}
		}
	}()

	return fn(ctx)
}

// normalize maps a zero outcome to PASSED and unknown statuses to ERROR.
func normalize(o assertion.Outcome) assertion.Outcome {
	switch o.Status {
	case "":
		o.Status = assertion.StatusPassed
	case assertion.StatusPassed, assertion.StatusFailed, assertion.StatusError, assertion.StatusSkipped:
	default:
		o = assertion.Outcome{
			Status:  assertion.StatusError,
			Details: fmt.Sprintf("test returned unknown status %q", o.Status),
		}
	}

	return o
}

// record appends result to the collector and fans it out to observers.
func (r *runner) record(ctx context.Context, observers []observer.Observer, result metrics.TestResult) {
	r.collector.Add(result)

	r.notify(observers, "OnTestResult", func(o observer.Observer) {
		o.OnTestResult(ctx, result)
	})
}

// notify delivers an event to every observer in order. A panicking observer
// is logged and does not affect the others.
func (r *runner) notify(observers []observer.Observer, event string, fn func(observer.Observer)) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	for _, o := range observers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.log.WithFields(logrus.Fields{
						"event":    event,
						"observer": fmt.Sprintf("%T", o),
						"panic":    rec,
					}).Warn("observer panicked")
				}
			}()

			fn(o)
		}()
	}
}

// Compile-time interface compliance check
var _ Runner = (*runner)(nil)
