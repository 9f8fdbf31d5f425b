package netsim

import "testing"

func TestNetworkPartDependsOnlyOnMaskedValueAndPrefix(t *testing.T) {
	mask := NewSubnetMask(24)
	a := NewNetworkPart(0x0a000001, mask)
	b := NewNetworkPart(0x0a0000ff, mask)
	if a != b {
		t.Fatalf("expected equal network parts for addresses in the same /24: %v != %v", a, b)
	}

	c := NewNetworkPart(0x0a000101, mask)
	if a == c {
		t.Fatalf("expected different network parts across /24 boundary: %v == %v", a, c)
	}

	d := NewNetworkPart(0x0a000001, NewSubnetMask(25))
	if a == d {
		t.Fatalf("expected different network parts for differing prefix lengths: %v == %v", a, d)
	}
}

func TestSubnetMaskBits(t *testing.T) {
	tests := []struct {
		prefix uint8
		want   uint32
	}{
		{0, 0x00000000},
		{24, 0xFFFFFF00},
		{32, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		if got := NewSubnetMask(tt.prefix).Bits(); got != tt.want {
			t.Errorf("prefix %d: got 0x%08x, want 0x%08x", tt.prefix, got, tt.want)
		}
	}
}

func TestMACBroadcast(t *testing.T) {
	if !MACBroadcast.IsBroadcast() {
		t.Fatal("MACBroadcast must report itself as broadcast")
	}
	if MAC(0x010203040506).IsBroadcast() {
		t.Fatal("an ordinary MAC must not report as broadcast")
	}
}

func TestEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 6)
	PutMAC(buf, MAC(0x0102030405ab))
	if got := GetMAC(buf); got != 0x0102030405ab {
		t.Fatalf("got %x, want %x", got, 0x0102030405ab)
	}

	buf16 := make([]byte, 2)
	PutUint16(buf16, 0xBEEF)
	if got := Uint16(buf16); got != 0xBEEF {
		t.Fatalf("got %x, want %x", got, 0xBEEF)
	}

	buf32 := make([]byte, 4)
	PutUint32(buf32, 0xDEADBEEF)
	if got := Uint32(buf32); got != 0xDEADBEEF {
		t.Fatalf("got %x, want %x", got, 0xDEADBEEF)
	}
}
