package health

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPChecker probes a TCP endpoint such as an SMTP relay
type TCPChecker struct {
	name    string
	Address string
}

// NewTCPChecker creates a TCP checker for address ("host:port")
func NewTCPChecker(name, address string) *TCPChecker {
	return &TCPChecker{name: name, Address: address}
}

func (t *TCPChecker) Name() string { return t.name }

// Check dials the address. The deadline comes from ctx.
func (t *TCPChecker) Check(ctx context.Context) Result {
	start := time.Now()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", t.Address)
	if err != nil {
		return Result{
			Healthy:   false,
			Message:   fmt.Sprintf("connection failed: %v", err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
	defer conn.Close()

	return Result{
		Healthy:   true,
		Message:   fmt.Sprintf("TCP connection to %s successful", t.Address),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}
