package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func TestHTTPClient_RetriesGatewayErrors(t *testing.T) {
	t.Parallel()

	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(testLogger(), HTTPClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RetryCount: 2,
	})

	resp, err := client.Get(context.Background(), "health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	var body map[string]string
	require.NoError(t, resp.JSON(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHTTPClient_ReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	}))
	defer srv.Close()

	client := NewHTTPClient(testLogger(), HTTPClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RetryCount: 1,
	})

	resp, err := client.Get(context.Background(), "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "down", resp.Text())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(testLogger(), HTTPClientConfig{BaseURL: srv.URL, RetryCount: 3})

	resp, err := client.Get(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPClient_PostSendsJSONAndToken(t *testing.T) {
	t.Parallel()

	type captured struct {
		auth        string
		contentType string
		body        map[string]string
	}

	got := make(chan captured, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)

		var body map[string]string
		_ = json.Unmarshal(data, &body)

		got <- captured{
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewHTTPClient(testLogger(), HTTPClientConfig{BaseURL: srv.URL + "/", AuthToken: "abc"})

	resp, err := client.Post(context.Background(), "/auth/login", map[string]string{"username": "u"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	c := <-got
	assert.Equal(t, "Bearer abc", c.auth)
	assert.Equal(t, "application/json", c.contentType)
	assert.Equal(t, map[string]string{"username": "u"}, c.body)
}

func TestHTTPClient_AbsoluteURLAndTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	client := NewHTTPClient(testLogger(), HTTPClientConfig{BaseURL: "http://unused.invalid", RetryCount: 0})

	resp, err := client.Get(context.Background(), srv.URL+"/anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	url := srv.URL
	srv.Close()

	_, err = client.Get(context.Background(), url+"/gone")
	require.Error(t, err)
}

func TestSyntheticClient(t *testing.T) {
	t.Parallel()

	client := NewSyntheticClient(testLogger())
	ctx := context.Background()

	resp, err := client.Get(ctx, "health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Text())

	resp, err = client.Post(ctx, "/auth/login", map[string]string{"username": "x"})
	require.NoError(t, err)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Username string   `json:"username"`
			Roles    []string `json:"roles"`
		} `json:"user"`
	}
	require.NoError(t, resp.JSON(&login))
	assert.Equal(t, "mock-token", login.Token)
	assert.Equal(t, "test_user", login.User.Username)
	assert.Equal(t, []string{"tester"}, login.User.Roles)

	_, err = client.Get(ctx, "/unknown")
	require.ErrorIs(t, err, ErrNoSyntheticRoute)

	_, err = client.Do(ctx, "post", "/health", nil)
	require.ErrorIs(t, err, ErrNoSyntheticRoute)
}

func TestNewClient_Selection(t *testing.T) {
	t.Parallel()

	synthetic := NewClient(&config.Config{UseSyntheticClient: true}, testLogger())
	assert.IsType(t, &syntheticClient{}, synthetic)

	network := NewClient(&config.Config{BaseAPIURL: "https://api.example.org", RetryCount: 1}, testLogger())
	assert.IsType(t, &httpClient{}, network)
}

func TestResponse_JSONError(t *testing.T) {
	t.Parallel()

	resp := &Response{Body: []byte("not json")}

	var v map[string]interface{}
	require.Error(t, resp.JSON(&v))
}
