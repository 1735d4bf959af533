// Package probe implements the collaborators checks use to reach a target
// environment: HTTP clients, TCP and TLS probes, keyword matching and DB pings.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/sirupsen/logrus"
)

// Client issues requests against the target API. Paths are joined to the base
// URL; absolute http(s) URLs are used as-is.
type Client interface {
	Do(ctx context.Context, method, path string, body interface{}) (*Response, error)
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body interface{}) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// NewClient returns the synthetic client when cfg asks for it, otherwise the
// retrying network client.
func NewClient(cfg *config.Config, log logrus.FieldLogger) Client {
	if cfg.UseSyntheticClient {
		log.WithField("component", "probe.client").Info("using synthetic HTTP client")

		return NewSyntheticClient(log)
	}

	return NewHTTPClient(log, HTTPClientConfig{
		BaseURL:    cfg.BaseAPIURL,
		Timeout:    cfg.Timeout,
		RetryCount: cfg.RetryCount,
		AuthToken:  cfg.APIAuthToken,
	})
}

func normalizePath(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}

	return "/" + path
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
