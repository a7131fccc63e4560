package sequencing

import "udpseq/internal/wire"

// Manager composes a RemoteTracker and a LocalTracker into the two
// operations a connection actually needs: preparing an outgoing header
// and folding in an incoming one.
type Manager struct {
	Remote *RemoteTracker
	Local  *LocalTracker
}

// NewManager returns a Manager with both trackers freshly initialized.
func NewManager() *Manager {
	return &Manager{
		Remote: NewRemoteTracker(),
		Local:  NewLocalTracker(),
	}
}

// Send builds the next outgoing header: the ack/ack_bitfield half comes
// from what we've received so far, the sequence half from our own local
// tracker. ok is false if the remote tracker has nothing to acknowledge
// yet, in which case no header is returned and the local tracker is left
// untouched — an endpoint that has received nothing can't speak first.
func (m *Manager) Send() (h wire.Header, ok bool) {
	ack, bitfield, ok := m.Remote.OnSend()
	if !ok {
		return wire.Header{}, false
	}
	return m.Local.OnSend(ack, bitfield), true
}

// Receive folds an incoming header into both trackers: the sender's
// sequence number into the remote tracker (so our next ack reflects
// it), and the sender's ack/ack_bitfield into the local tracker (so we
// learn which of our own sends it has given up on). It returns the
// local sequences the peer has dropped, if any.
func (m *Manager) Receive(h wire.Header) (dropped map[uint32]struct{}, any bool) {
	m.Remote.OnReceive(h.Sequence)
	return m.Local.OnReceive(h)
}
