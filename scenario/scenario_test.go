package scenario

import (
	"errors"
	"testing"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/device"
	"github.com/soypat/netsim/ethernet"
	"github.com/soypat/netsim/ip"
	"github.com/soypat/netsim/tcp"
)

func TestRepeaterScenario(t *testing.T) {
	res := Repeater(nil)
	if err := res.Net.Run(10); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host1")
	if err != nil {
		t.Fatal(err)
	}
	h1 := raw.(*device.ByteHost)
	var got []byte
	for _, r := range h1.RecvLog {
		got = append(got, r.B)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBridgeScenario(t *testing.T) {
	res := Bridge(nil)
	if err := res.Net.Run(150); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host_b")
	if err != nil {
		t.Fatal(err)
	}
	hb := raw.(*ethernet.Host)
	if len(hb.RecvLog) != 1 {
		t.Fatalf("expected exactly one frame, got %d", len(hb.RecvLog))
	}
	f := hb.RecvLog[0].Frame
	if f.Dst != 24 || f.Src != 23 {
		t.Fatalf("unexpected addrs: %+v", f)
	}
	want := []byte{11, 12, 13}
	if len(f.Payload) != len(want) || f.Payload[0] != 11 || f.Payload[1] != 12 || f.Payload[2] != 13 {
		t.Fatalf("unexpected payload: %v", f.Payload)
	}
}

func TestIPEchoScenario(t *testing.T) {
	res := IPEcho(nil)
	if err := res.Net.Run(100); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host0")
	if err != nil {
		t.Fatal(err)
	}
	h0 := raw.(*ip.Host)
	if len(h0.RecvLog) != 1 {
		t.Fatalf("expected exactly one datagram, got %d", len(h0.RecvLog))
	}
	dg := h0.RecvLog[0].Datagram
	if dg.Dst != 0x0a000001 || dg.Src != 0x0a000002 {
		t.Fatalf("unexpected addrs: %+v", dg)
	}
	if len(dg.Payload.Bytes) != 2 || dg.Payload.Bytes[0] != 0x01 || dg.Payload.Bytes[1] != 0x02 {
		t.Fatalf("unexpected payload: %v", dg.Payload.Bytes)
	}
}

func TestICMPUnreachableScenario(t *testing.T) {
	res := ICMPUnreachable(nil)
	err := res.Net.Run(200)
	var unreachable *netsim.IpUnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected IpUnreachableError, got %v", err)
	}
	if unreachable.Code != 1 {
		t.Fatalf("expected code 1, got %d", unreachable.Code)
	}
}

func TestARPResolveScenario(t *testing.T) {
	res := ARPResolve(nil)
	if err := res.Net.Run(400); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host_a")
	if err != nil {
		t.Fatal(err)
	}
	hostA := raw.(*ip.Host)
	mac, ok := hostA.ResolvedMAC(0x0a000002)
	if !ok {
		t.Fatal("expected router's MAC to be resolved")
	}
	if mac != 12 {
		t.Fatalf("got mac %v, want 12", mac)
	}
}

func TestRoutedForwardScenario(t *testing.T) {
	res := RoutedForward(nil)
	if err := res.Net.Run(400); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host_b")
	if err != nil {
		t.Fatal(err)
	}
	hostB := raw.(*ip.Host)
	if len(hostB.RecvLog) != 1 {
		t.Fatalf("expected exactly one datagram delivered across the route, got %d", len(hostB.RecvLog))
	}
	dg := hostB.RecvLog[0].Datagram
	if dg.Src != 0x0a000001 || dg.Dst != 0x0a010002 {
		t.Fatalf("unexpected addrs: %+v", dg)
	}
	want := []byte{0xaa, 0xbb}
	if len(dg.Payload.Bytes) != len(want) || dg.Payload.Bytes[0] != want[0] || dg.Payload.Bytes[1] != want[1] {
		t.Fatalf("unexpected payload: %v", dg.Payload.Bytes)
	}

	rawRouterA, err := res.GetDevice("router_a")
	if err != nil {
		t.Fatal(err)
	}
	routerA := rawRouterA.(*ip.Router)
	if _, ok := routerA.ResolvedMAC(0x0a020002); !ok {
		t.Fatal("expected router_a to have resolved router_b's transit MAC")
	}
}

func TestTCPRoundTripScenario(t *testing.T) {
	res := TCPRoundTrip(nil)
	// This system's byte-level wire (one byte per device per tick) makes a
	// full run longer than a frame-level simulator would need; size the
	// budget for the handshake's total header+payload bytes with margin.
	if err := res.Net.Run(2000); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := res.GetDevice("host_a")
	if err != nil {
		t.Fatal(err)
	}
	hostA := raw.(*tcp.Host)
	if len(hostA.RecvLog) < 3 {
		t.Fatalf("expected at least 3 received segments, got %d", len(hostA.RecvLog))
	}
	tags := make([]tcp.Tag, len(hostA.RecvLog))
	for i, s := range hostA.RecvLog {
		tags[i] = s.Segment.Tag()
	}
	mustContainInOrder(t, tags, tcp.TagSynAck, tcp.TagAck, tcp.TagFinAck)
}

func mustContainInOrder(t *testing.T, tags []tcp.Tag, want ...tcp.Tag) {
	t.Helper()
	i := 0
	for _, tag := range tags {
		if i < len(want) && tag == want[i] {
			i++
		}
	}
	if i != len(want) {
		t.Fatalf("tags %v did not contain %v in order", tags, want)
	}
}
