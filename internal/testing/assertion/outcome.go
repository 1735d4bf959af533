// Package assertion provides the outcome type returned by test bodies and the
// check primitive used to build it.
package assertion

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
)

// Status is the terminal state of a single test invocation.
type Status string

const (
	// StatusPassed indicates the test body completed without a failing check.
	StatusPassed Status = "PASSED"
	// StatusFailed indicates an expected, author-raised check failure.
	StatusFailed Status = "FAILED"
	// StatusError indicates an unexpected error or panic.
	StatusError Status = "ERROR"
	// StatusSkipped indicates the test decided not to run.
	StatusSkipped Status = "SKIPPED"
)

// Func is a test body. It returns exactly one Outcome.
type Func func(ctx context.Context) Outcome

// Outcome is what a test body reports back to the runner.
type Outcome struct {
	Status  Status
	Details string
}

// Passed returns a passing outcome. Optional details are joined with "; ".
func Passed(details ...string) Outcome {
	return Outcome{Status: StatusPassed, Details: strings.Join(details, "; ")}
}

// Failed returns a failing outcome carrying msg.
func Failed(msg string) Outcome {
	return Outcome{Status: StatusFailed, Details: msg}
}

// Failedf is Failed with formatting.
func Failedf(format string, args ...interface{}) Outcome {
	return Failed(fmt.Sprintf(format, args...))
}

// Skipped returns a skipped outcome with the reason in its details.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Details: reason}
}

// Errored returns an error outcome. The stack of the caller is appended to the
// details so unexpected errors can be diagnosed from the report alone.
func Errored(err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	return Outcome{
		Status:  StatusError,
		Details: fmt.Sprintf("%s\n%s", msg, debug.Stack()),
	}
}

// Check returns a failed outcome and false when cond does not hold.
//
//	if o, ok := assertion.Check(resp.StatusCode == 200, "expected 200, got %d", resp.StatusCode); !ok {
//		return o
//	}
func Check(cond bool, format string, args ...interface{}) (Outcome, bool) {
	if cond {
		return Outcome{}, true
	}

	return Failedf(format, args...), false
}

// IsFailure reports whether the outcome should count against the run.
func (o Outcome) IsFailure() bool {
	return o.Status == StatusFailed || o.Status == StatusError
}
