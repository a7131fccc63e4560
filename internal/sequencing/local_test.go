package sequencing

import (
	"testing"

	"udpseq/internal/wire"
)

func sameSet(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint32]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

func TestLocalTrackerOnSendIncrementsSequence(t *testing.T) {
	tr := NewLocalTracker()

	for i, want := range []uint32{0, 1, 2, 3} {
		h := tr.OnSend(0, 0)
		if h.Sequence != want {
			t.Fatalf("send %d: Sequence = %d, want %d", i, h.Sequence, want)
		}
	}
}

func TestLocalTrackerDoesNotDropFullyAckedSends(t *testing.T) {
	tr := NewLocalTracker()

	for i := uint32(0); i < 10; i++ {
		var bitfield uint32
		for j := uint32(0); j <= i; j++ {
			bitfield |= 1 << j
		}
		tr.OnSend(0, 0)
		_, any := tr.OnReceive(wire.Header{Ack: i, AckBitfield: bitfield})
		if any {
			t.Fatalf("round %d: unexpected drops", i)
		}
	}
}

func TestLocalTrackerDropsPacketsOutsideWindow(t *testing.T) {
	tr := NewLocalTracker()

	for i := 0; i < 45; i++ {
		tr.OnSend(0, 0)
	}

	dropped, any := tr.OnReceive(wire.Header{Ack: 44, AckBitfield: 0})
	if !any {
		t.Fatal("expected drops, got none")
	}

	var got []uint32
	for seq := range dropped {
		got = append(got, seq)
	}
	want := []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	if !sameSet(got, want) {
		t.Errorf("dropped = %v, want %v (order-independent)", got, want)
	}
}
