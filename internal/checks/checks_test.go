package checks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/probe"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/registry"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/testdef"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

type fakeClient struct {
	resp *probe.Response
	err  error
}

func (f fakeClient) Do(context.Context, string, string, interface{}) (*probe.Response, error) {
	return f.resp, f.err
}

func (f fakeClient) Get(ctx context.Context, path string) (*probe.Response, error) {
	return f.Do(ctx, http.MethodGet, path, nil)
}

func (f fakeClient) Post(ctx context.Context, path string, body interface{}) (*probe.Response, error) {
	return f.Do(ctx, http.MethodPost, path, body)
}

type fakeCerts map[string]bool

func (f fakeCerts) Check(_ context.Context, endpoint string, _ int) (bool, int, string) {
	if f[endpoint] {
		return true, 90, "valid for 90 day(s)"
	}

	return false, 2, "expiring in 2 day(s)"
}

type fakePinger map[string]bool

func (f fakePinger) Ping(_ context.Context, target config.DBTarget) (bool, string) {
	if f[target.Name] {
		return true, "connection successful"
	}

	return false, "connection failed: refused"
}

func synthetic(cfg *config.Config, opts ...Option) *Suite {
	return New(testLogger(), cfg, probe.NewSyntheticClient(testLogger()), opts...)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, synthetic(&config.Config{}).Register(reg))

	entries := reg.List()
	require.Len(t, entries, 6)
	assert.Equal(t, registry.Entry{Name: NameHealth, Tags: []string{"smoke", "api"}}, entries[0])
	assert.Equal(t, registry.Entry{Name: NameDatabase, Tags: []string{"db", "infrastructure"}}, entries[5])

	err := synthetic(&config.Config{}).Register(reg)
	require.ErrorIs(t, err, registry.ErrDuplicateTest)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	o := synthetic(&config.Config{}).health(ctx)
	assert.Equal(t, assertion.StatusPassed, o.Status)

	o = New(testLogger(), &config.Config{}, fakeClient{resp: &probe.Response{StatusCode: 500}}).health(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusFailed, Details: "expected status 200, got 500"}, o)

	o = New(testLogger(), &config.Config{}, fakeClient{resp: &probe.Response{StatusCode: 200, Body: []byte(`{"status":"degraded"}`)}}).health(ctx)
	assert.Equal(t, assertion.StatusFailed, o.Status)
	assert.Equal(t, "expected JSON status 'ok', got degraded", o.Details)

	o = New(testLogger(), &config.Config{}, fakeClient{resp: &probe.Response{StatusCode: 200, Body: []byte(`<html>`)}}).health(ctx)
	assert.Equal(t, assertion.StatusFailed, o.Status)
	assert.Contains(t, o.Details, "failed to decode JSON response")

	o = New(testLogger(), &config.Config{}, fakeClient{err: errors.New("connection refused")}).health(ctx)
	assert.Equal(t, assertion.StatusError, o.Status)
	assert.Contains(t, o.Details, "connection refused")
}

func TestHealthPerformance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	o := synthetic(&config.Config{PerfLimitMS: 1000}).healthPerformance(ctx)
	assert.Equal(t, assertion.StatusPassed, o.Status)
	assert.Contains(t, o.Details, "responded in")

	o = synthetic(&config.Config{PerfLimitMS: 0}).healthPerformance(ctx)
	assert.Equal(t, assertion.StatusFailed, o.Status)
	assert.Contains(t, o.Details, "health endpoint should respond under 0 ms")
}

func TestAuthLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	o := synthetic(&config.Config{}).authLogin(ctx)
	assert.Equal(t, assertion.StatusPassed, o.Status)

	o = New(testLogger(), &config.Config{}, fakeClient{resp: &probe.Response{StatusCode: 200, Body: []byte(`{"user":{}}`)}}).authLogin(ctx)
	assert.Equal(t, assertion.StatusFailed, o.Status)
	assert.Equal(t, `response is missing token field. Body: {"user":{}}`, o.Details)

	o = New(testLogger(), &config.Config{}, fakeClient{resp: &probe.Response{StatusCode: 401}}).authLogin(ctx)
	assert.Equal(t, "expected status 200, got 401", o.Details)
}

func TestContentKeywords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	o := synthetic(&config.Config{}).contentKeywords(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusSkipped, Details: "No content checks configured"}, o)

	o = synthetic(&config.Config{ContentChecks: []config.ContentCheck{
		{Path: "/health", Keyword: "OK"},
	}}).contentKeywords(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusPassed, Details: "/health: keyword 'OK' located"}, o)

	o = synthetic(&config.Config{ContentChecks: []config.ContentCheck{
		{Path: "/health", Keyword: "ok"},
		{Path: "/health", Keyword: "banana"},
		{Path: "/missing", Keyword: "x"},
	}}).contentKeywords(ctx)
	assert.Equal(t, assertion.StatusFailed, o.Status)
	assert.True(t, strings.HasPrefix(o.Details, "Content check issues: /health missing keyword 'banana'; /missing request failed"), o.Details)

	o = New(testLogger(), &config.Config{ContentChecks: []config.ContentCheck{{Path: "/status", Keyword: "up"}}},
		fakeClient{resp: &probe.Response{StatusCode: 503}}).contentKeywords(ctx)
	assert.Equal(t, "Content check issues: /status returned 503", o.Details)
}

func TestSSLCertificates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	certs := fakeCerts{"good.example": true}

	o := synthetic(&config.Config{}, WithCertificateChecker(certs)).sslCertificates(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusSkipped, Details: "No SSL endpoints configured"}, o)

	o = synthetic(&config.Config{SSLEndpoints: []string{"good.example"}}, WithCertificateChecker(certs)).sslCertificates(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusPassed, Details: "good.example: valid for 90 day(s)"}, o)

	o = synthetic(&config.Config{SSLEndpoints: []string{"good.example", "old.example"}}, WithCertificateChecker(certs)).sslCertificates(ctx)
	assert.Equal(t, assertion.Outcome{
		Status:  assertion.StatusFailed,
		Details: "SSL issues detected: old.example (expiring in 2 day(s))",
	}, o)
}

func TestDatabaseConnectivity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pinger := fakePinger{"primary": true, "replica": true}

	o := synthetic(&config.Config{}, WithDBPinger(pinger)).databaseConnectivity(ctx)
	assert.Equal(t, assertion.Outcome{Status: assertion.StatusSkipped, Details: "No database targets configured"}, o)

	o = synthetic(&config.Config{DBPings: []config.DBTarget{{Name: "primary"}, {Name: "replica"}}},
		WithDBPinger(pinger), WithTargetWorkers(1)).databaseConnectivity(ctx)
	assert.Equal(t, assertion.Outcome{
		Status:  assertion.StatusPassed,
		Details: "primary: connection successful; replica: connection successful",
	}, o)

	o = synthetic(&config.Config{DBPings: []config.DBTarget{{Name: "primary"}, {Name: "cache"}, {Name: "queue"}}},
		WithDBPinger(pinger)).databaseConnectivity(ctx)
	assert.Equal(t, assertion.Outcome{
		Status:  assertion.StatusFailed,
		Details: "Database connectivity issues: cache (connection failed: refused); queue (connection failed: refused)",
	}, o)
}

func TestRegisterDefinitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New()
	suite := synthetic(&config.Config{})

	defs := []*testdef.CheckDefinition{
		{Name: "health body", Method: http.MethodGet, Path: "/health", ExpectStatus: 200, Contains: []string{"status", "ok"}, Tags: []string{"yaml"}},
		{Name: "wrong status", Method: http.MethodGet, Path: "/health", ExpectStatus: 204},
		{Name: "missing words", Method: http.MethodGet, Path: "/health", ExpectStatus: 200, Contains: []string{"ok", "ready", "live"}},
		{Name: "unknown route", Method: http.MethodGet, Path: "/nope", ExpectStatus: 200},
	}

	require.NoError(t, suite.RegisterDefinitions(reg, defs))
	require.Equal(t, 4, reg.Len())
	assert.Len(t, reg.ByTag([]string{"yaml"}), 1)

	outcomes := make(map[string]assertion.Outcome)
	for _, tc := range reg.All() {
		outcomes[tc.Name] = tc.Func(ctx)
	}

	assert.Equal(t, assertion.Outcome{Status: assertion.StatusPassed, Details: "GET /health returned 200"}, outcomes["health body"])
	assert.Equal(t, "GET /health: expected status 204, got 200", outcomes["wrong status"].Details)
	assert.Equal(t, "GET /health: response missing 'ready', 'live'", outcomes["missing words"].Details)
	assert.Equal(t, assertion.StatusError, outcomes["unknown route"].Status)

	err := suite.RegisterDefinitions(reg, defs[:1])
	require.ErrorIs(t, err, registry.ErrDuplicateTest)
}
