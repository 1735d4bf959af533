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

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// Telegram sends run notifications through the Bot API sendMessage method.
type Telegram struct {
	apiBase string
	token   string
	chatID  string
	sender  *sender
}

// TelegramOption configures a Telegram observer.
type TelegramOption func(*Telegram)

// WithAPIBase overrides the Bot API base URL.
func WithAPIBase(base string) TelegramOption {
	return func(t *Telegram) {
		t.apiBase = strings.TrimRight(base, "/")
	}
}

// NewTelegram creates a Telegram observer posting to chatID.
func NewTelegram(log logrus.FieldLogger, token, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		apiBase: DefaultTelegramAPI,
		token:   token,
		chatID:  chatID,
		sender:  newSender(log.WithField("component", "notify.telegram")),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TelegramFactory builds a Telegram observer when both TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID are set.
func TelegramFactory(cfg *config.Config, log logrus.FieldLogger) (observer.Observer, error) {
	token := strings.TrimSpace(cfg.TelegramBotToken)
	chatID := strings.TrimSpace(cfg.TelegramChatID)

	if token == "" || chatID == "" {
		return nil, observer.ErrDisabled
	}

	return NewTelegram(log, token, chatID), nil
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (t *Telegram) OnStart(ctx context.Context, info observer.RunInfo) {
	t.send(ctx, fmt.Sprintf("*synthetic-scout started*\nEnvironment: `%s`\nTests: `%d`", info.Env, info.TestCount))
}

func (t *Telegram) OnTestResult(ctx context.Context, result metrics.TestResult) {
	if !alertable(result) {
		return
	}

	details := result.Details
	if details == "" {
		details = "n/a"
	}

	t.send(ctx, fmt.Sprintf("*Alert*: `%s`\nStatus: `%s`\nDetails: %s", result.Name, result.Status, details))
}

func (t *Telegram) OnFinish(ctx context.Context, summary *metrics.Summary) {
	t.send(ctx, fmt.Sprintf(
		"*synthetic-scout finished*\nTotal: `%d`\nPassed: `%d`\nFailed: `%d`\nErrors: `%d`\nSkipped: `%d`",
		summary.Total, summary.Passed, summary.Failed, summary.Error, summary.Skipped,
	))
}

func (t *Telegram) send(ctx context.Context, text string) {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)

	t.sender.post(ctx, url, telegramMessage{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
}

var _ observer.Observer = (*Telegram)(nil)
