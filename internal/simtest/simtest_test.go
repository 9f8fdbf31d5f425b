package simtest

import "testing"

func TestAddrGenDeterministic(t *testing.T) {
	a := NewAddrGen(1)
	b := NewAddrGen(1)
	for i := 0; i < 8; i++ {
		if a.MAC() != b.MAC() {
			t.Fatal("same seed must reproduce the same MAC sequence")
		}
	}
}

func TestAddrGenRanges(t *testing.T) {
	g := NewAddrGen(42)
	for i := 0; i < 32; i++ {
		if mac := g.MAC(); mac&0x020000000000 == 0 {
			t.Fatalf("MAC %#x missing locally-administered bit", mac)
		}
		if ip := g.IPv4(); ip&0xFF000000 != 0x0A000000 {
			t.Fatalf("IPv4 %#08x outside 10.0.0.0/8", ip)
		}
		if port := g.Port(); port < 1024 {
			t.Fatalf("port %d below ephemeral range", port)
		}
	}
	if p := g.Payload(16); len(p) != 16 {
		t.Fatalf("payload length %d, want 16", len(p))
	}
}
