package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)

	return "127.0.0.1", addr.Port
}

func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	return port
}

func TestPing(t *testing.T) {
	t.Parallel()

	host, port := listen(t)

	ok, msg := Ping(context.Background(), host, port, time.Second)
	assert.True(t, ok)
	assert.Equal(t, "connection successful", msg)

	ok, msg = Ping(context.Background(), "127.0.0.1", closedPort(t), time.Second)
	assert.False(t, ok)
	assert.Contains(t, msg, "connection failed")

	ok, msg = Ping(context.Background(), "", 80, time.Second)
	assert.False(t, ok)
	assert.Equal(t, "invalid host or port", msg)
}

func TestContainsKeyword(t *testing.T) {
	t.Parallel()

	ok, msg := ContainsKeyword("All Systems Operational", "operational")
	assert.True(t, ok)
	assert.Equal(t, "keyword 'operational' located", msg)

	ok, msg = ContainsKeyword("maintenance", "operational")
	assert.False(t, ok)
	assert.Equal(t, "keyword 'operational' not found", msg)
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry   string
		host    string
		port    int
		wantErr bool
	}{
		{entry: "example.com", host: "example.com", port: 443},
		{entry: "example.com:8443", host: "example.com", port: 8443},
		{entry: "https://example.com:8443/path/x", host: "example.com", port: 8443},
		{entry: "http://example.com/health", host: "example.com", port: 443},
		{entry: "[::1]:9443", host: "::1", port: 9443},
		{entry: "", wantErr: true},
		{entry: "example.com:abc", wantErr: true},
		{entry: "https://:443", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.entry, func(t *testing.T) {
			t.Parallel()

			host, port, err := ParseEndpoint(tt.entry)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
		})
	}
}

func TestCertificateChecker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	endpoint := srv.URL + "/some/path"
	notAfter := srv.Certificate().NotAfter

	newChecker := func(now time.Time) *CertificateChecker {
		return &CertificateChecker{
			TLSConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
			Timeout:   2 * time.Second,
			Now:       func() time.Time { return now },
		}
	}

	t.Run("valid", func(t *testing.T) {
		ok, days, msg := newChecker(notAfter.Add(-30*24*time.Hour)).Check(context.Background(), endpoint, 7)
		assert.True(t, ok)
		assert.Equal(t, 30, days)
		assert.Equal(t, "valid for 30 day(s)", msg)
	})

	t.Run("below threshold", func(t *testing.T) {
		ok, days, msg := newChecker(notAfter.Add(-3*24*time.Hour)).Check(context.Background(), endpoint, 7)
		assert.False(t, ok)
		assert.Equal(t, 3, days)
		assert.Equal(t, "expiring in 3 day(s)", msg)
	})

	t.Run("expired", func(t *testing.T) {
		ok, days, msg := newChecker(notAfter.Add(2*24*time.Hour)).Check(context.Background(), endpoint, 7)
		assert.False(t, ok)
		assert.Equal(t, -2, days)
		assert.Equal(t, "expired 2 day(s) ago", msg)
	})

	t.Run("untrusted certificate", func(t *testing.T) {
		checker := &CertificateChecker{Timeout: 2 * time.Second}
		ok, days, msg := checker.Check(context.Background(), endpoint, 7)
		assert.False(t, ok)
		assert.Equal(t, 0, days)
		assert.Contains(t, msg, "connection failed")
	})

	t.Run("parse error", func(t *testing.T) {
		ok, days, msg := CheckCertificate(context.Background(), "  ", 7)
		assert.False(t, ok)
		assert.Equal(t, 0, days)
		assert.Contains(t, msg, "empty")
	})
}

func TestDBPinger(t *testing.T) {
	t.Parallel()

	pinger := NewDBPinger(testLogger())
	host, port := listen(t)
	ctx := context.Background()

	ok, msg := pinger.Ping(ctx, config.DBTarget{Name: "pg", Host: host, Port: port})
	assert.True(t, ok)
	assert.Equal(t, "connection successful", msg)

	ok, msg = pinger.Ping(ctx, config.DBTarget{Name: "x", Host: host, Port: port, Kind: "oracle"})
	assert.False(t, ok)
	assert.Equal(t, "unsupported kind 'oracle'", msg)

	dead := closedPort(t)

	ok, msg = pinger.Ping(ctx, config.DBTarget{
		Name: "cache", Host: "127.0.0.1", Port: dead, Kind: config.DBKindRedis, Timeout: 500 * time.Millisecond,
	})
	assert.False(t, ok)
	assert.Contains(t, msg, "redis ping failed")

	ok, msg = pinger.Ping(ctx, config.DBTarget{
		Name: "cache", Host: "127.0.0.1", Port: dead, Kind: config.DBKindRedis, Database: "x",
	})
	assert.False(t, ok)
	assert.Equal(t, "invalid redis database 'x'", msg)

	ok, msg = pinger.Ping(ctx, config.DBTarget{
		Name: "ch", Host: "127.0.0.1", Port: dead, Kind: config.DBKindClickHouse, Timeout: 500 * time.Millisecond,
	})
	assert.False(t, ok)
	assert.Contains(t, msg, "clickhouse ping failed")
}
