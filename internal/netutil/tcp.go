package netutil

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultDialTimeout is the per-attempt timeout for a TCP connect check. A loopback
// connection either succeeds or is refused almost immediately; the timeout
// only matters when the SYN is silently dropped.
const DefaultDialTimeout = time.Second

// LoopbackAddr returns the IPv4 loopback address for port in host:port form.
func LoopbackAddr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// PortChecker dials a TCP address to check whether something is listening on it.
// The zero value uses DefaultDialTimeout.
type PortChecker struct {
	DialTimeout time.Duration
}

// Listening reports whether a TCP connection to addr can be established.
// The connection is closed immediately. Dial errors are not returned:
// a refused or timed-out dial simply means nothing is listening yet.
func (p PortChecker) Listening(ctx context.Context, addr string) bool {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
