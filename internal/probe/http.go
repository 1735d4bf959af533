package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	retryWaitMin = 200 * time.Millisecond
	retryWaitMax = 2 * time.Second
	// maxBodyBytes caps how much of a response body is kept in memory.
	maxBodyBytes = 10 << 20
)

// HTTPClientConfig configures the network client.
type HTTPClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	AuthToken  string
}

type httpClient struct {
	log     logrus.FieldLogger
	baseURL string
	token   string
	client  *retryablehttp.Client
}

// NewHTTPClient creates a retrying HTTP client. Transport errors and
// 502/503/504 responses are retried up to RetryCount times with bounded
// exponential backoff; the last response is returned once retries run out.
func NewHTTPClient(log logrus.FieldLogger, cfg HTTPClientConfig) Client {
	log = log.WithField("component", "probe.http_client")

	base := cleanhttp.DefaultPooledClient()
	base.Timeout = cfg.Timeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.Logger = &leveledLogger{log: log}
	rc.RetryMax = cfg.RetryCount
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.WithFields(logrus.Fields{
				"method":  req.Method,
				"url":     req.URL.String(),
				"attempt": attempt,
			}).Warn("retrying request")
		}
	}

	return &httpClient{
		log:     log,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AuthToken,
		client:  rc,
	}
}

// retryPolicy retries transport errors and gateway failures only.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	default:
		return false, nil
	}
}

func (c *httpClient) Do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	target := c.url(path)

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if payload != nil {
		raw = payload
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, strings.ToUpper(method), target, raw)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    target,
		"status": resp.StatusCode,
	}).Debug("request completed")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *httpClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *httpClient) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *httpClient) url(path string) string {
	if isAbsoluteURL(path) {
		return path
	}

	return c.baseURL + normalizePath(path)
}

// encodeBody turns body into request bytes. Strings and byte slices are sent
// verbatim, anything else is JSON encoded.
func encodeBody(body interface{}) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "application/octet-stream", nil
	case string:
		return []byte(v), "text/plain; charset=utf-8", nil
	case json.RawMessage:
		return v, "application/json", nil
	default:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}

		return buf.Bytes(), "application/json", nil
	}
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Warn(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

var _ Client = (*httpClient)(nil)

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)
