package config

import "time"

// Environment variable names.
const (
	EnvName                   = "ENV"
	EnvBaseAPIURL             = "BASE_API_URL"
	EnvRetryCount             = "RETRY_COUNT"
	EnvTimeout                = "TIMEOUT"
	EnvPerfLimitMS            = "PERF_LIMIT_MS"
	EnvAnomalyThreshold       = "ANOMALY_THRESHOLD"
	EnvMaxWorkers             = "MAX_WORKERS"
	EnvTestTimeout            = "TEST_TIMEOUT"
	EnvAPIAuthToken           = "API_AUTH_TOKEN"
	EnvSSLExpiryThresholdDays = "SSL_EXPIRY_THRESHOLD_DAYS"
	EnvSSLEndpoints           = "SSL_ENDPOINTS"
	EnvContentChecks          = "CONTENT_CHECKS"
	EnvDBPings                = "DB_PINGS"
	EnvSlackWebhookURL        = "SLACK_WEBHOOK_URL"
	EnvTelegramBotToken       = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID         = "TELEGRAM_CHAT_ID"
	EnvUseSyntheticAPI        = "USE_SYNTHETIC_API"
	EnvReportsDir             = "REPORTS_DIR"
	EnvChecksFile             = "CHECKS_FILE"
	EnvMetricsTextfile        = "METRICS_TEXTFILE"
	EnvLogLevel               = "LOG_LEVEL"
)

// Defaults applied when a variable is unset or malformed.
const (
	DefaultEnv                    = "dev"
	DefaultRetryCount             = 2
	DefaultTimeout                = 5 * time.Second
	DefaultPerfLimitMS            = 300
	DefaultAnomalyThreshold       = 1.8
	DefaultMaxWorkers             = 4
	DefaultSSLExpiryThresholdDays = 7
	DefaultReportsDir             = "reports"
	DefaultLogLevel               = "info"
	// DefaultDBPingTimeout applies to DB targets without a timeout.
	DefaultDBPingTimeout = 2 * time.Second
)

// DB target kinds.
const (
	DBKindTCP        = "tcp"
	DBKindRedis      = "redis"
	DBKindClickHouse = "clickhouse"
)
