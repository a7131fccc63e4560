// Package peer owns the per-remote-address connection state machine: a
// single goroutine per peer running a sequencing Manager behind a
// re-armable idle timer, plus a Registry that creates, dispatches to,
// and reaps those connections.
package peer

import (
	"net"
	"net/netip"
	"time"

	"udpseq/internal/hooks"
	"udpseq/internal/logging"
	"udpseq/internal/metrics"
	"udpseq/internal/sequencing"
	"udpseq/internal/wire"
)

// Sender is the narrow subset of net.PacketConn a Connection needs to
// reply to its peer. Defined as an interface so tests can substitute a
// recording fake instead of a real socket.
type Sender interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
}

// inboundPacket is one datagram handed to a Connection's mailbox.
type inboundPacket struct {
	header wire.Header
}

// Connection is a single peer's sequencing state, run entirely on its
// own goroutine: the sequencing.Manager is created and used only inside
// run, so no locking is needed around it.
type Connection struct {
	addr   netip.AddrPort
	remote net.Addr
	conn   Sender
	hooks  *hooks.Manager

	inbox chan inboundPacket
	done  chan struct{}

	idleTimeout time.Duration
}

// newConnection constructs a Connection without starting it. The caller
// starts its goroutine with go c.run(onIdle).
func newConnection(addr netip.AddrPort, remote net.Addr, conn Sender, h *hooks.Manager, idleTimeout time.Duration) *Connection {
	return &Connection{
		addr:        addr,
		remote:      remote,
		conn:        conn,
		hooks:       h,
		inbox:       make(chan inboundPacket, 64),
		done:        make(chan struct{}),
		idleTimeout: idleTimeout,
	}
}

// Deliver enqueues an inbound header for this connection to process.
// It never blocks its caller (the Registry's single dispatch goroutine):
// if the connection has already terminated, the datagram is dropped
// silently; if its mailbox is full, the datagram is dropped and logged.
// Either way dispatch for every other peer is not stalled.
func (c *Connection) Deliver(h wire.Header) {
	select {
	case c.inbox <- inboundPacket{header: h}:
	case <-c.done:
	default:
		logging.Warn("peer %s: mailbox full, dropping inbound datagram", c.addr)
	}
}

// Closed reports whether the connection's goroutine has exited.
func (c *Connection) Closed() <-chan struct{} {
	return c.done
}

// run is the connection's goroutine body. It owns the sequencing
// Manager outright and re-arms its idle timer on every inbound packet,
// mirroring the reference implementation's cancel-then-respawn pattern
// for its own idle-reap task.
func (c *Connection) run(onIdle func()) {
	defer close(c.done)

	mgr := sequencing.NewManager()
	timer := time.NewTimer(c.idleTimeout)
	defer timer.Stop()

	for {
		select {
		case pkt := <-c.inbox:
			if !timer.Stop() {
				<-drainTimer(timer)
			}
			timer.Reset(c.idleTimeout)

			dropped, any := mgr.Receive(pkt.header)
			if any && len(dropped) > 0 {
				metrics.PacketsDroppedTotal.Add(float64(len(dropped)))
				seqs := make([]uint32, 0, len(dropped))
				for s := range dropped {
					seqs = append(seqs, s)
				}
				logging.Debug("peer %s: %d packets dropped by remote", c.addr, len(seqs))
				if c.hooks != nil {
					c.hooks.Emit(hooks.Event{Type: hooks.EventPacketsDropped, Peer: c.addr, Dropped: seqs})
				}
			}

			if out, ok := mgr.Send(); ok && c.conn != nil {
				if _, err := c.conn.WriteTo(wire.Encode(out), c.remote); err != nil {
					logging.Warn("peer %s: write failed: %v", c.addr, err)
				}
			}

		case <-timer.C:
			onIdle()
			return
		}
	}
}

// drainTimer returns a channel that immediately yields the pending fire
// of an already-stopped timer, so the caller can drain it without a
// second select arm at every call site.
func drainTimer(t *time.Timer) <-chan time.Time {
	ch := make(chan time.Time, 1)
	select {
	case v := <-t.C:
		ch <- v
	default:
		close(ch)
	}
	return ch
}
