package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Ping opens and closes a TCP connection to host:port. It never returns an
// error; failures are described in the message.
func Ping(ctx context.Context, host string, port int, timeout time.Duration) (bool, string) {
	host = strings.TrimSpace(host)
	if host == "" || port <= 0 || port > 65535 {
		return false, "invalid host or port"
	}

	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false, fmt.Sprintf("connection failed: %v", err)
	}

	_ = conn.Close()

	return true, "connection successful"
}
