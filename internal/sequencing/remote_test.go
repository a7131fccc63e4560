package sequencing

import "testing"

func TestRemoteTrackerEmptyHasNoAck(t *testing.T) {
	tr := NewRemoteTracker()

	_, _, ok := tr.OnSend()
	if ok {
		t.Fatal("expected ok=false on an empty tracker")
	}
}

func TestRemoteTrackerACoupleRounds(t *testing.T) {
	tr := NewRemoteTracker()

	check := func(recv uint32, wantAck, wantBitfield uint32) {
		t.Helper()
		tr.OnReceive(recv)
		ack, bitfield, ok := tr.OnSend()
		if !ok {
			t.Fatalf("after receiving %d: expected ok=true", recv)
		}
		if ack != wantAck || bitfield != wantBitfield {
			t.Errorf("after receiving %d: got (ack=%d, bitfield=0b%b), want (ack=%d, bitfield=0b%b)",
				recv, ack, bitfield, wantAck, wantBitfield)
		}
	}

	check(0, 0, 0b1)
	check(1, 1, 0b11)
	check(3, 3, 0b1011)
	check(2, 3, 0b1111)
}

func TestRemoteTrackerGoesUpTo32(t *testing.T) {
	tr := NewRemoteTracker()

	for i := uint32(0); i < 31; i++ {
		tr.OnReceive(i)
	}
	if ack, bitfield, ok := tr.OnSend(); !ok || ack != 30 || bitfield != (^uint32(0))>>1 {
		t.Errorf("after 0..30: got (ack=%d, bitfield=0b%b, ok=%v), want (ack=30, bitfield=0b%b, ok=true)",
			ack, bitfield, ok, (^uint32(0))>>1)
	}

	tr.OnReceive(31)
	if ack, bitfield, ok := tr.OnSend(); !ok || ack != 31 || bitfield != ^uint32(0) {
		t.Errorf("after adding 31: got (ack=%d, bitfield=0b%b, ok=%v), want (ack=31, bitfield=0xFFFFFFFF, ok=true)",
			ack, bitfield, ok)
	}

	tr.OnReceive(32)
	if ack, bitfield, ok := tr.OnSend(); !ok || ack != 32 || bitfield != ^uint32(0) {
		t.Errorf("after adding 32: got (ack=%d, bitfield=0b%b, ok=%v), want (ack=32, bitfield=0xFFFFFFFF, ok=true)",
			ack, bitfield, ok)
	}
}

func TestRemoteTrackerOneHundredRoundsEveryEven(t *testing.T) {
	tr := NewRemoteTracker()

	for i := uint32(0); i <= 98; i += 2 {
		tr.OnReceive(i)
	}

	ack, bitfield, ok := tr.OnSend()
	if !ok || ack != 98 {
		t.Fatalf("got (ack=%d, ok=%v), want (ack=98, ok=true)", ack, ok)
	}

	var want uint32
	for i := 0; i < 32; i += 2 {
		want |= 1 << uint(i)
	}
	if bitfield != want {
		t.Errorf("bitfield = 0b%b, want 0b%b", bitfield, want)
	}
}

func TestRemoteTrackerOneHundredRoundsAll(t *testing.T) {
	tr := NewRemoteTracker()

	for i := uint32(0); i <= 99; i++ {
		tr.OnReceive(i)
	}

	ack, bitfield, ok := tr.OnSend()
	if !ok || ack != 99 || bitfield != ^uint32(0) {
		t.Errorf("got (ack=%d, bitfield=0b%b, ok=%v), want (ack=99, bitfield=0xFFFFFFFF, ok=true)",
			ack, bitfield, ok)
	}
}
