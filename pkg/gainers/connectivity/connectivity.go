// Package connectivity answers whether the host currently has a usable default route.
package connectivity

import (
	"net"
	"time"
)

// DefaultProbeAddr is only used to select a route; nothing is sent to it.
const DefaultProbeAddr = "1.1.1.1:53"

// Checker is a point-in-time probe. Results are never cached.
type Checker interface {
	Connected() bool
}

// RouteProbe asks the kernel for a route by connecting a UDP socket.
type RouteProbe struct {
	Addr    string
	Timeout time.Duration
}

func (p RouteProbe) Connected() bool {
	addr := p.Addr
	if addr == "" {
		addr = DefaultProbeAddr
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	conn, err := net.DialTimeout("udp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return false
	}
	return !local.IP.IsUnspecified() && !local.IP.IsLoopback()
}

// Static always reports the same answer.
type Static bool

func (s Static) Connected() bool { return bool(s) }

// Func adapts a function to Checker.
type Func func() bool

func (f Func) Connected() bool { return f() }
