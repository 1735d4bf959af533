package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/observer"
	"github.com/sirupsen/logrus"
)

// Slack posts run notifications to an incoming webhook.
type Slack struct {
	webhookURL string
	sender     *sender
}

// NewSlack creates a Slack observer for webhookURL.
func NewSlack(log logrus.FieldLogger, webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		sender:     newSender(log.WithField("component", "notify.slack")),
	}
}

// SlackFactory builds a Slack observer when SLACK_WEBHOOK_URL is set.
func SlackFactory(cfg *config.Config, log logrus.FieldLogger) (observer.Observer, error) {
	url := strings.TrimSpace(cfg.SlackWebhookURL)
	if url == "" {
		return nil, observer.ErrDisabled
	}

	return NewSlack(log, url), nil
}

type slackMessage struct {
	Text string `json:"text"`
}

func (s *Slack) OnStart(ctx context.Context, info observer.RunInfo) {
	s.send(ctx, fmt.Sprintf("synthetic-scout started for ENV=%s (tests=%d)", info.Env, info.TestCount))
}

func (s *Slack) OnTestResult(ctx context.Context, result metrics.TestResult) {
	if !alertable(result) {
		return
	}

	s.send(ctx, strings.TrimSpace(fmt.Sprintf("Alert: %s -> %s\n%s", result.Name, result.Status, result.Details)))
}

func (s *Slack) OnFinish(ctx context.Context, summary *metrics.Summary) {
	s.send(ctx, "synthetic-scout finished: "+totals(summary))
}

func (s *Slack) send(ctx context.Context, text string) {
	s.sender.post(ctx, s.webhookURL, slackMessage{Text: text})
}

var _ observer.Observer = (*Slack)(nil)
