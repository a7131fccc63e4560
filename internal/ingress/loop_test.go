package ingress

import (
	"net"
	"net/netip"
	"sync"
	"testing"
	"time"

	"udpseq/internal/wire"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	seen []wire.Header
}

func (f *fakeDispatcher) Dispatch(addr netip.AddrPort, remote net.Addr, h wire.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, h)
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func TestLoopDecodesAndDispatches(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatal(err)
	}

	dispatcher := &fakeDispatcher{}
	loop := New(serverConn, dispatcher)

	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	client, err := net.DialUDP("udp", nil, serverConn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	h := wire.Header{Sequence: 1, Ack: 2, AckBitfield: 3}
	if _, err := client.Write(wire.Encode(h)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for dispatcher.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if dispatcher.count() != 1 {
		t.Fatalf("dispatched count = %d, want 1", dispatcher.count())
	}

	if err := loop.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run returned error after Stop: %v", err)
	}
}

func TestLoopDropsUndecodableDatagrams(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatal(err)
	}

	dispatcher := &fakeDispatcher{}
	loop := New(serverConn, dispatcher)

	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	client, err := net.DialUDP("udp", nil, serverConn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("short")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if dispatcher.count() != 0 {
		t.Errorf("dispatched count = %d, want 0 for an undecodable datagram", dispatcher.count())
	}

	loop.Stop()
	<-done
}
