package checks

import (
	"context"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"golang.org/x/sync/errgroup"
)

// targetResult is the outcome of probing one target of a multi-target check.
// An empty failure means the target is healthy.
type targetResult struct {
	detail  string
	failure string
}

// fanOut probes every item with at most workers in flight. Results keep the
// order of items.
func fanOut[T any](ctx context.Context, workers int, items []T, check func(context.Context, T) targetResult) []targetResult {
	if workers < 1 {
		workers = 1
	}

	var (
		g       errgroup.Group
		sem     = make(chan struct{}, workers)
		results = make([]targetResult, len(items))
	)

	for i, item := range items {
		i, item := i, item

		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = check(ctx, item)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// summarize passes with every target's detail, or fails with the failures
// prefixed by prefix.
func summarize(results []targetResult, prefix string) assertion.Outcome {
	var (
		details  = make([]string, 0, len(results))
		failures = make([]string, 0)
	)

	for _, r := range results {
		details = append(details, r.detail)

		if r.failure != "" {
			failures = append(failures, r.failure)
		}
	}

	if len(failures) > 0 {
		return assertion.Failed(prefix + strings.Join(failures, "; "))
	}

	return assertion.Passed(strings.Join(details, "; "))
}
