package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoSyntheticRoute is returned for requests the synthetic client has no answer for.
var ErrNoSyntheticRoute = errors.New("no synthetic response configured")

type route struct {
	method string
	path   string
}

type syntheticResponse struct {
	status  int
	payload interface{}
}

// syntheticRoutes is the fixed answer table served by the synthetic client.
var syntheticRoutes = map[route]syntheticResponse{
	{method: http.MethodGet, path: "/health"}: {
		status:  http.StatusOK,
		payload: map[string]interface{}{"status": "ok"},
	},
	{method: http.MethodPost, path: "/auth/login"}: {
		status: http.StatusOK,
		payload: map[string]interface{}{
			"token": "mock-token",
			"user": map[string]interface{}{
				"username": "test_user",
				"roles":    []string{"tester"},
			},
		},
	},
}

type syntheticClient struct {
	log logrus.FieldLogger
}

// NewSyntheticClient returns a deterministic in-memory client that never
// touches the network.
func NewSyntheticClient(log logrus.FieldLogger) Client {
	return &syntheticClient{
		log: log.WithField("component", "probe.synthetic_client"),
	}
}

func (c *syntheticClient) Do(ctx context.Context, method, path string, _ interface{}) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method = strings.ToUpper(method)
	path = normalizePath(path)

	answer, ok := syntheticRoutes[route{method: method, path: path}]
	if !ok {
		return nil, fmt.Errorf("%w for %s %s", ErrNoSyntheticRoute, method, path)
	}

	body, err := json.Marshal(answer.payload)
	if err != nil {
		return nil, fmt.Errorf("encoding synthetic payload: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": answer.status,
	}).Debug("served synthetic response")

	return &Response{
		StatusCode: answer.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}, nil
}

func (c *syntheticClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *syntheticClient) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

var _ Client = (*syntheticClient)(nil)
