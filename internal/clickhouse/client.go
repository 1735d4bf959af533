// Package clickhouse provides ClickHouse connectivity checks over the native protocol
package clickhouse

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const defaultDatabase = "default"

// Target identifies a ClickHouse server to ping.
type Target struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// Options builds the native-protocol connection options for t.
func (t Target) Options() *clickhouse.Options {
	database := t.Database
	if database == "" {
		database = defaultDatabase
	}

	username := t.Username
	if username == "" {
		username = "default"
	}

	return &clickhouse.Options{
		Addr: []string{net.JoinHostPort(t.Host, strconv.Itoa(t.Port))},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: t.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 10,
		},
		DialTimeout:     t.Timeout,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

// Connect opens a connection to t and verifies it with a ping.
func Connect(ctx context.Context, t Target) (driver.Conn, error) {
	conn, err := clickhouse.Open(t.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	pingCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc

		pingCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return conn, nil
}

// Ping connects, pings and disconnects, returning the server version on success.
func Ping(ctx context.Context, t Target) (string, error) {
	conn, err := Connect(ctx, t)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	version, err := conn.ServerVersion()
	if err != nil {
		return "", fmt.Errorf("reading server version: %w", err)
	}

	return version.String(), nil
}
