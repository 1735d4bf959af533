// Package notify posts run notifications to chat webhooks.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
)

const sendTimeout = 5 * time.Second

// sender posts JSON payloads to absolute URLs. Failures are logged, never
// returned, so a broken sink cannot affect the run.
type sender struct {
	log    logrus.FieldLogger
	client probe.Client
}

func newSender(log logrus.FieldLogger) *sender {
	return &sender{
		log: log,
		client: probe.NewHTTPClient(log, probe.HTTPClientConfig{
			Timeout:    sendTimeout,
			RetryCount: 0,
		}),
	}
}

func (s *sender) post(ctx context.Context, url string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	resp, err := s.client.Post(ctx, url, payload)
	if err != nil {
		s.log.WithError(err).Warn("notification failed")

		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.WithField("status", resp.StatusCode).Warn("notification rejected")
	}
}

// alertable reports whether a result should raise an alert.
func alertable(result metrics.TestResult) bool {
	return result.Status == assertion.StatusFailed || result.Status == assertion.StatusError
}

func totals(summary *metrics.Summary) string {
	return fmt.Sprintf("total=%d, passed=%d, failed=%d, error=%d, skipped=%d",
		summary.Total, summary.Passed, summary.Failed, summary.Error, summary.Skipped)
}
