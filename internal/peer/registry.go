package peer

import (
	"net"
	"net/netip"
	"time"

	"udpseq/internal/hooks"
	"udpseq/internal/logging"
	"udpseq/internal/metrics"
	"udpseq/internal/wire"
)

// registryCommand is the mailbox message type the registry's single
// goroutine consumes. Only one of its fields is meaningful per command.
type registryCommand struct {
	dispatch *dispatchCommand
	prune    *pruneCommand
}

type dispatchCommand struct {
	addr   netip.AddrPort
	remote net.Addr
	header wire.Header
}

type pruneCommand struct {
	addr netip.AddrPort
}

// Registry owns the full set of live Connections, keyed by peer address.
// All mutation happens on a single goroutine, so the map itself needs no
// lock; this mirrors the reference connection manager's
// get-or-create-then-forward dispatch.
type Registry struct {
	conn        Sender
	hooks       *hooks.Manager
	idleTimeout time.Duration

	cmds chan registryCommand
	stop chan struct{}
}

// NewRegistry returns a Registry that writes replies through conn and
// reaps idle connections after idleTimeout. Call Run to start it.
func NewRegistry(conn Sender, h *hooks.Manager, idleTimeout time.Duration) *Registry {
	return &Registry{
		conn:        conn,
		hooks:       h,
		idleTimeout: idleTimeout,
		cmds:        make(chan registryCommand, 256),
		stop:        make(chan struct{}),
	}
}

// Dispatch hands an inbound datagram's header to the connection for
// addr, creating one if this is the first time addr has been seen.
// Safe to call from the ingress goroutine concurrently with Run.
func (r *Registry) Dispatch(addr netip.AddrPort, remote net.Addr, h wire.Header) {
	select {
	case r.cmds <- registryCommand{dispatch: &dispatchCommand{addr: addr, remote: remote, header: h}}:
	case <-r.stop:
	}
}

// Run is the registry's goroutine body; it must be run in its own
// goroutine and exits when Stop is called.
func (r *Registry) Run() {
	connections := make(map[netip.AddrPort]*Connection)

	prune := func(addr netip.AddrPort) {
		select {
		case r.cmds <- registryCommand{prune: &pruneCommand{addr: addr}}:
		case <-r.stop:
		}
	}

	for {
		select {
		case cmd := <-r.cmds:
			switch {
			case cmd.dispatch != nil:
				d := cmd.dispatch
				c, ok := connections[d.addr]
				if !ok {
					c = newConnection(d.addr, d.remote, r.conn, r.hooks, r.idleTimeout)
					connections[d.addr] = c
					metrics.ConnectionsActive.Inc()
					metrics.ConnectionsCreatedTotal.Inc()
					logging.Info("peer %s connected", d.addr)
					if r.hooks != nil {
						r.hooks.Emit(hooks.Event{Type: hooks.EventPeerConnected, Peer: d.addr})
					}
					addr := d.addr
					go c.run(func() { prune(addr) })
				}
				c.Deliver(d.header)

			case cmd.prune != nil:
				addr := cmd.prune.addr
				if _, ok := connections[addr]; ok {
					delete(connections, addr)
					metrics.ConnectionsActive.Dec()
					metrics.ConnectionsReapedTotal.Inc()
					logging.Info("peer %s reaped after idling out", addr)
					if r.hooks != nil {
						r.hooks.Emit(hooks.Event{Type: hooks.EventPeerReaped, Peer: addr})
					}
				}
			}

		case <-r.stop:
			return
		}
	}
}

// Stop signals Run to return. It does not wait for in-flight connection
// goroutines to exit.
func (r *Registry) Stop() {
	close(r.stop)
}
