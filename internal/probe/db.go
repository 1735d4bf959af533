package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/agiulucom42-del/synthetic-scout/internal/clickhouse"
	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// PingFunc checks a single DB target. It never returns an error; failures are
// described in the message.
type PingFunc func(ctx context.Context, target config.DBTarget) (bool, string)

// DBPinger dispatches DB targets to a ping implementation by kind.
type DBPinger interface {
	Ping(ctx context.Context, target config.DBTarget) (bool, string)
}

type dbPinger struct {
	log   logrus.FieldLogger
	kinds map[string]PingFunc
}

// NewDBPinger creates a pinger with tcp, redis and clickhouse support.
func NewDBPinger(log logrus.FieldLogger) DBPinger {
	return &dbPinger{
		log: log.WithField("component", "probe.db_pinger"),
		kinds: map[string]PingFunc{
			config.DBKindTCP:        pingTCP,
			config.DBKindRedis:      pingRedis,
			config.DBKindClickHouse: pingClickHouse,
		},
	}
}

func (p *dbPinger) Ping(ctx context.Context, target config.DBTarget) (bool, string) {
	kind := target.Kind
	if kind == "" {
		kind = config.DBKindTCP
	}

	fn, ok := p.kinds[kind]
	if !ok {
		return false, fmt.Sprintf("unsupported kind '%s'", kind)
	}

	if target.Timeout <= 0 {
		target.Timeout = config.DefaultDBPingTimeout
	}

	start := time.Now()
	ok, msg := fn(ctx, target)

	p.log.WithFields(logrus.Fields{
		"target":   target.Name,
		"kind":     kind,
		"ok":       ok,
		"duration": time.Since(start),
	}).Debug("pinged DB target")

	return ok, msg
}

func pingTCP(ctx context.Context, target config.DBTarget) (bool, string) {
	return Ping(ctx, target.Host, target.Port, target.Timeout)
}

func pingRedis(ctx context.Context, target config.DBTarget) (bool, string) {
	db := 0

	if target.Database != "" {
		n, err := strconv.Atoi(target.Database)
		if err != nil {
			return false, fmt.Sprintf("invalid redis database '%s'", target.Database)
		}

		db = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(target.Host, strconv.Itoa(target.Port)),
		Username:     target.Username,
		Password:     target.Password,
		DB:           db,
		DialTimeout:  target.Timeout,
		ReadTimeout:  target.Timeout,
		WriteTimeout: target.Timeout,
		MaxRetries:   -1,
	})
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, target.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return false, fmt.Sprintf("redis ping failed: %v", err)
	}

	return true, "redis PONG"
}

func pingClickHouse(ctx context.Context, target config.DBTarget) (bool, string) {
	version, err := clickhouse.Ping(ctx, clickhouse.Target{
		Host:     target.Host,
		Port:     target.Port,
		Username: target.Username,
		Password: target.Password,
		Database: target.Database,
		Timeout:  target.Timeout,
	})
	if err != nil {
		return false, fmt.Sprintf("clickhouse ping failed: %v", err)
	}

	return true, fmt.Sprintf("clickhouse %s reachable", version)
}

var _ DBPinger = (*dbPinger)(nil)
