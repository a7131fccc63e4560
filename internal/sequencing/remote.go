package sequencing

// Window is the width, in sequence numbers, of the sliding window both
// trackers reason about: the 32 most recent remote sequences we track
// receipt of, and the 32 most recent local sequences a single ack
// bitfield can describe.
const Window = 32

// RemoteTracker observes the sequence numbers of datagrams received from
// a peer and produces the (ack, ack_bitfield) pair this endpoint reports
// back to that peer.
type RemoteTracker struct {
	seen *orderedSet
}

// NewRemoteTracker returns an empty RemoteTracker.
func NewRemoteTracker() *RemoteTracker {
	return &RemoteTracker{seen: newOrderedSet()}
}

// OnReceive admits remoteSeq into the tracked window, or silently drops
// it if it falls below the live window (the peer will already have
// concluded it was lost). Idempotent.
func (t *RemoteTracker) OnReceive(remoteSeq uint32) {
	highest, ok := t.seen.Max()

	admit := !ok || highest < Window || remoteSeq > highest-Window
	if !admit {
		return
	}

	t.seen.Insert(remoteSeq)

	h, _ := t.seen.Max()
	floor := uint32(0)
	if h >= Window {
		floor = h - Window
	}
	t.seen.DeleteLessThan(floor)
}

// OnSend reports the highest sequence seen (ack) and a bitfield whose
// bit i marks receipt of sequence floor+i, where floor is ack-32 (or 0
// while ack < 32), or ok=false if nothing has been received yet. Once
// ack >= 32 the bits cover the 32 sequences immediately below ack; before
// that they cover sequences 0..31, so ack's own bit is set as well.
func (t *RemoteTracker) OnSend() (ack uint32, bitfield uint32, ok bool) {
	h, hasAny := t.seen.Max()
	if !hasAny {
		return 0, 0, false
	}

	floor := uint32(0)
	if h >= Window {
		floor = h - Window
	}

	var bits uint32
	t.seen.Ascend(func(s uint32) bool {
		idx := s - floor
		if idx < Window {
			bits |= 1 << idx
		}
		return true
	})

	return h, bits, true
}
