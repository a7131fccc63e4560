// Package hooks lets application code observe connection lifecycle
// events without coupling the sequencing and peer packages to any
// particular application.
package hooks

import "net/netip"

// EventType identifies the kind of event a Manager dispatches.
type EventType int

const (
	// EventPeerConnected fires when a datagram arrives from a remote
	// address with no live connection and a connection is created for it
	// (including again for an address whose earlier connection was reaped).
	EventPeerConnected EventType = iota
	// EventPeerReaped fires when a connection is torn down after its
	// idle timeout elapses.
	EventPeerReaped
	// EventPacketsDropped fires whenever a Receive call reports that one
	// or more previously-sent local sequences aged out of the peer's
	// ack window unacknowledged.
	EventPacketsDropped
)

// Event is the payload passed to every handler registered for its Type.
type Event struct {
	Type EventType
	Peer netip.AddrPort
	// Dropped holds the sequence numbers considered lost. Populated only
	// for EventPacketsDropped.
	Dropped []uint32
}

// Handler is invoked synchronously for every Event of the type it was
// registered under.
type Handler func(Event)

// Manager is a minimal, in-process event bus: register handlers with On,
// fire them with Emit. On must not run concurrently with On or Emit;
// Emit only reads the handler table, so concurrent Emit calls are safe
// once registration is finished. internal/peer emits from its registry
// goroutine and from every connection goroutine, so handlers may run
// concurrently with each other.
type Manager struct {
	handlers map[EventType][]Handler
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{handlers: make(map[EventType][]Handler)}
}

// On registers h to be called for every future Event of type t.
func (m *Manager) On(t EventType, h Handler) {
	m.handlers[t] = append(m.handlers[t], h)
}

// Emit calls every handler registered for e.Type, in registration order.
func (m *Manager) Emit(e Event) {
	for _, h := range m.handlers[e.Type] {
		h(e)
	}
}
