package sequencing

import "udpseq/internal/wire"

// LocalTracker issues this endpoint's own outgoing sequence numbers and,
// from the ack/ack_bitfield a peer echoes back, determines which of our
// unacknowledged sends have aged out of the peer's window and must be
// considered dropped.
type LocalTracker struct {
	sequence uint32
	unacked  *orderedSet
}

// NewLocalTracker returns a tracker starting at sequence 0 with nothing
// outstanding.
func NewLocalTracker() *LocalTracker {
	return &LocalTracker{unacked: newOrderedSet()}
}

// OnSend issues the next local sequence number, records it as
// outstanding, and returns the full outgoing header (the caller supplies
// the ack/ack_bitfield half from a RemoteTracker).
func (t *LocalTracker) OnSend(ack, ackBitfield uint32) wire.Header {
	h := wire.Header{Sequence: t.sequence, Ack: ack, AckBitfield: ackBitfield}
	t.unacked.Insert(t.sequence)
	t.sequence++
	return h
}

// OnReceive folds a peer's ack/ack_bitfield into the outstanding set.
// It returns the set of local sequences that fell out of the peer's
// window before being acknowledged, and whether any did.
//
// The floor and index formulas below are reproduced exactly as the
// reference implementation computes them, including for small ack
// values where they behave asymmetrically from what the 32-wide window
// elsewhere in this package would suggest. That behavior is preserved
// deliberately rather than "corrected" — see the sequencing section of
// the design notes.
func (t *LocalTracker) OnReceive(h wire.Header) (dropped map[uint32]struct{}, any bool) {
	ack := h.Ack

	floor := ack
	if ack > Window {
		floor = ack - Window
	}

	evicted := t.unacked.DeleteLessThan(floor)
	if len(evicted) > 0 {
		dropped = make(map[uint32]struct{}, len(evicted))
		for _, seq := range evicted {
			dropped[seq] = struct{}{}
		}
		any = true
	}

	var minWindow uint32 = Window
	if ack < minWindow {
		minWindow = ack
	}

	var toRemove []uint32
	t.unacked.Ascend(func(seq uint32) bool {
		idx := minWindow + seq - ack
		if idx >= Window {
			return true
		}
		acked := seq == ack || h.AckBitfield&(1<<idx) != 0
		if acked {
			toRemove = append(toRemove, seq)
		}
		return true
	})
	for _, seq := range toRemove {
		t.unacked.Delete(seq)
	}

	return dropped, any
}
