package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTLSPort    = 443
	defaultTLSTimeout = 5 * time.Second
)

var (
	errEmptyEndpoint   = errors.New("SSL endpoint entry is empty")
	errInvalidEndpoint = errors.New("invalid SSL endpoint")
)

// CertificateChecker inspects the leaf certificate served by a TLS endpoint.
type CertificateChecker struct {
	// TLSConfig is cloned for every dial. Nil uses system roots.
	TLSConfig *tls.Config
	Timeout   time.Duration
	Now       func() time.Time
}

// CheckCertificate checks endpoint with the default checker.
func CheckCertificate(ctx context.Context, endpoint string, thresholdDays int) (bool, int, string) {
	return (&CertificateChecker{}).Check(ctx, endpoint, thresholdDays)
}

// Check reports whether the certificate at endpoint is valid for at least
// thresholdDays more days, along with the whole days left.
func (c *CertificateChecker) Check(ctx context.Context, endpoint string, thresholdDays int) (bool, int, string) {
	host, port, err := ParseEndpoint(endpoint)
	if err != nil {
		return false, 0, err.Error()
	}

	notAfter, err := c.fetchExpiry(ctx, host, port)
	if err != nil {
		return false, 0, fmt.Sprintf("connection failed: %v", err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	remaining := notAfter.Sub(now())
	daysLeft := int(math.Floor(remaining.Hours() / 24))

	if remaining < 0 {
		return false, daysLeft, fmt.Sprintf("expired %d day(s) ago", -daysLeft)
	}

	if daysLeft < thresholdDays {
		return false, daysLeft, fmt.Sprintf("expiring in %d day(s)", daysLeft)
	}

	return true, daysLeft, fmt.Sprintf("valid for %d day(s)", daysLeft)
}

func (c *CertificateChecker) fetchExpiry(ctx context.Context, host string, port int) (time.Time, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.TLSConfig != nil {
		cfg = c.TLSConfig.Clone()
	}

	if cfg.ServerName == "" {
		cfg.ServerName = host
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTLSTimeout
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config:    cfg,
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected connection type %T", conn) //nolint:err113 // dynamic type in message
	}

	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return time.Time{}, errors.New("no peer certificate presented") //nolint:err113 // one-off
	}

	return certs[0].NotAfter, nil
}

// ParseEndpoint extracts host and port from a bare host, host:port or an
// http(s) URL. Paths are dropped and the port defaults to 443.
func ParseEndpoint(entry string) (string, int, error) {
	value := strings.TrimSpace(entry)
	if value == "" {
		return "", 0, errEmptyEndpoint
	}

	value = strings.TrimPrefix(value, "https://")
	value = strings.TrimPrefix(value, "http://")

	if idx := strings.Index(value, "/"); idx >= 0 {
		value = value[:idx]
	}

	host, port := value, defaultTLSPort

	if h, p, err := net.SplitHostPort(value); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return "", 0, fmt.Errorf("%w: invalid port in '%s'", errInvalidEndpoint, entry)
		}

		host, port = h, n
	} else if strings.Count(value, ":") == 1 {
		return "", 0, fmt.Errorf("%w: invalid port in '%s'", errInvalidEndpoint, entry)
	}

	host = strings.Trim(strings.TrimSpace(host), "[]")
	if host == "" {
		return "", 0, fmt.Errorf("%w: '%s'", errInvalidEndpoint, entry)
	}

	return host, port, nil
}
