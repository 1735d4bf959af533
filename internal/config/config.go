// Package config handles configuration loading and management
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LookupFunc resolves an environment variable. os.Getenv satisfies it.
type LookupFunc func(key string) string

// Config holds the application configuration
type Config struct {
	Env        string
	BaseAPIURL string
	RetryCount int
	Timeout    time.Duration

	PerfLimitMS      int
	AnomalyThreshold float64
	MaxWorkers       int
	TestTimeout      time.Duration

	APIAuthToken           string
	SSLExpiryThresholdDays int
	SSLEndpoints           []string
	ContentChecks          []ContentCheck
	DBPings                []DBTarget

	SlackWebhookURL  string
	TelegramBotToken string
	TelegramChatID   string

	// UseSyntheticClient selects the in-memory HTTP client instead of the
	// network. Decided once at load time.
	UseSyntheticClient bool

	ReportsDir      string
	ChecksFile      string
	MetricsTextfile string
	LogLevel        string
}

// Load reads configuration from environment variables and .env files. With no
// files given it loads ./.env when present; explicit files must exist.
func Load(log logrus.FieldLogger, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// It's okay if the default file doesn't exist
		if len(envFiles) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	return Parse(os.Getenv, log), nil
}

// Parse builds a Config from lookup. Malformed values fall back to their
// defaults with a warning and never fail.
func Parse(lookup LookupFunc, log logrus.FieldLogger) *Config {
	p := &parser{
		lookup: lookup,
		log:    log.WithField("component", "config"),
	}

	cfg := &Config{
		Env:        p.str(EnvName, DefaultEnv),
		BaseAPIURL: strings.TrimRight(p.str(EnvBaseAPIURL, ""), "/"),
		RetryCount: p.nonNegativeInt(EnvRetryCount, DefaultRetryCount),
		Timeout:    p.duration(EnvTimeout, DefaultTimeout),

		PerfLimitMS:      p.nonNegativeInt(EnvPerfLimitMS, DefaultPerfLimitMS),
		AnomalyThreshold: p.positiveFloat(EnvAnomalyThreshold, DefaultAnomalyThreshold),
		MaxWorkers:       p.positiveInt(EnvMaxWorkers, DefaultMaxWorkers),
		TestTimeout:      p.duration(EnvTestTimeout, 0),

		APIAuthToken:           p.str(EnvAPIAuthToken, ""),
		SSLExpiryThresholdDays: p.nonNegativeInt(EnvSSLExpiryThresholdDays, DefaultSSLExpiryThresholdDays),
		SSLEndpoints:           parseStringList(p.str(EnvSSLEndpoints, "")),
		ContentChecks:          parseContentChecks(p.str(EnvContentChecks, ""), p.log),
		DBPings:                parseDBTargets(p.str(EnvDBPings, ""), p.log),

		SlackWebhookURL:  p.str(EnvSlackWebhookURL, ""),
		TelegramBotToken: p.str(EnvTelegramBotToken, ""),
		TelegramChatID:   p.str(EnvTelegramChatID, ""),

		ReportsDir:      p.str(EnvReportsDir, DefaultReportsDir),
		ChecksFile:      p.str(EnvChecksFile, ""),
		MetricsTextfile: p.str(EnvMetricsTextfile, ""),
		LogLevel:        p.str(EnvLogLevel, DefaultLogLevel),
	}

	cfg.UseSyntheticClient = useSynthetic(lookup(EnvUseSyntheticAPI), cfg.BaseAPIURL)

	return cfg
}

// useSynthetic applies the explicit override when set, otherwise falls back to
// the synthetic client whenever the base URL is not an absolute http(s) URL.
func useSynthetic(override, baseURL string) bool {
	if v := strings.TrimSpace(override); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		default:
			return false
		}
	}

	if baseURL == "" {
		return true
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return true
	}

	return u.Scheme != "http" && u.Scheme != "https"
}

type parser struct {
	lookup LookupFunc
	log    logrus.FieldLogger
}

func (p *parser) str(key, defaultValue string) string {
	if value := strings.TrimSpace(p.lookup(key)); value != "" {
		return value
	}

	return defaultValue
}

func (p *parser) integer(key string, defaultValue int) (int, bool) {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		p.log.WithField("key", key).WithError(err).Warn("invalid integer, using default")

		return defaultValue, false
	}

	return v, true
}

func (p *parser) nonNegativeInt(key string, defaultValue int) int {
	v, ok := p.integer(key, defaultValue)
	if ok && v < 0 {
		p.log.WithField("key", key).Warn("negative value, using default")

		return defaultValue
	}

	return v
}

func (p *parser) positiveInt(key string, defaultValue int) int {
	v, ok := p.integer(key, defaultValue)
	if ok && v < 1 {
		p.log.WithField("key", key).Warn("value must be at least 1, using default")

		return defaultValue
	}

	return v
}

func (p *parser) positiveFloat(key string, defaultValue float64) float64 {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		p.log.WithField("key", key).Warn("invalid positive number, using default")

		return defaultValue
	}

	return v
}

// duration accepts a Go duration ("750ms") or a bare number of seconds ("5").
func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}

	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		p.log.WithField("key", key).Warn("invalid duration, using default")

		return defaultValue
	}

	return d
}

func (c *Config) String() string {
	secret := func(v string) string {
		if v == "" {
			return "(not set)"
		}

		return "********"
	}

	display := func(v string) string {
		if v == "" {
			return "(not set)"
		}

		return v
	}

	testTimeout := "(none)"
	if c.TestTimeout > 0 {
		testTimeout = c.TestTimeout.String()
	}

	return fmt.Sprintf(`Current Configuration:
======================
Environment:              %s
Base API URL:             %s
Synthetic Client:         %t
Retry Count:              %d
Request Timeout:          %s
Perf Limit (ms):          %d
Anomaly Threshold:        %.2f
Max Workers:              %d
Test Timeout:             %s
API Auth Token:           %s
SSL Expiry Threshold:     %d day(s)
SSL Endpoints:            %d
Content Checks:           %d
DB Targets:               %d
Slack Webhook:            %s
Telegram Bot Token:       %s
Telegram Chat ID:         %s
Reports Dir:              %s
Checks File:              %s
Metrics Textfile:         %s
Log Level:                %s`,
		c.Env,
		display(c.BaseAPIURL),
		c.UseSyntheticClient,
		c.RetryCount,
		c.Timeout,
		c.PerfLimitMS,
		c.AnomalyThreshold,
		c.MaxWorkers,
		testTimeout,
		secret(c.APIAuthToken),
		c.SSLExpiryThresholdDays,
		len(c.SSLEndpoints),
		len(c.ContentChecks),
		len(c.DBPings),
		secret(c.SlackWebhookURL),
		secret(c.TelegramBotToken),
		display(c.TelegramChatID),
		c.ReportsDir,
		display(c.ChecksFile),
		display(c.MetricsTextfile),
		c.LogLevel,
	)
}
