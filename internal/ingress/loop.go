// Package ingress runs the read loop that turns raw UDP datagrams into
// decoded headers dispatched to a peer registry.
package ingress

import (
	"errors"
	"net"
	"net/netip"

	"udpseq/internal/logging"
	"udpseq/internal/metrics"
	"udpseq/internal/wire"
)

// Dispatcher is the subset of *peer.Registry the ingress loop depends
// on, kept as an interface so tests can substitute a fake.
type Dispatcher interface {
	Dispatch(addr netip.AddrPort, remote net.Addr, h wire.Header)
}

// Loop reads datagrams from conn until it is closed or Stop is called,
// decoding each one's header and handing it to registry. One buffer is
// reused across reads; registry dispatch and connection processing
// happen on their own goroutines, so the buffer is safe to reuse as
// soon as Dispatch returns.
type Loop struct {
	conn     *net.UDPConn
	registry Dispatcher
	stopping bool
}

// New returns a Loop reading from conn and dispatching to registry.
func New(conn *net.UDPConn, registry Dispatcher) *Loop {
	return &Loop{conn: conn, registry: registry}
}

// Run blocks, reading and dispatching datagrams, until the underlying
// connection is closed (via Stop or externally). It returns nil on a
// clean shutdown and the read error otherwise.
func (l *Loop) Run() error {
	buf := make([]byte, 2048)

	for {
		n, addr, err := l.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if l.stopping {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return err
		}

		header, err := wire.Decode(buf[:n])
		if err != nil {
			metrics.DecodeErrorsTotal.Inc()
			logging.Debug("ingress: dropping datagram from %s: %v", addr, err)
			continue
		}

		remote := net.UDPAddrFromAddrPort(addr)
		l.registry.Dispatch(addr, remote, header)
	}
}

// Stop closes the underlying connection, causing Run to return.
func (l *Loop) Stop() error {
	l.stopping = true
	return l.conn.Close()
}
