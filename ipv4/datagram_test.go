package ipv4

import (
	"bytes"
	"errors"
	"testing"

	"github.com/soypat/netsim"
)

func TestDatagramRoundTripBytes(t *testing.T) {
	d := Datagram{ToS: 1, ID: 42, Flags: 0x4000, TTL: 64, Protocol: ProtoBytes, Src: 0x0a000001, Dst: 0x0a000002, Payload: Payload{Bytes: []byte{1, 2, 3, 4}}}
	buf := Encode(nil, d)
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Src != d.Src || got.Dst != d.Dst || got.TTL != d.TTL || got.Protocol != d.Protocol {
		t.Fatalf("header mismatch: got %+v, want %+v", got, d)
	}
	if !bytes.Equal(got.Payload.Bytes, d.Payload.Bytes) {
		t.Fatalf("payload mismatch: got %v, want %v", got.Payload.Bytes, d.Payload.Bytes)
	}
}

func TestDatagramRoundTripICMP(t *testing.T) {
	d := Datagram{TTL: 64, Protocol: ProtoICMP, Src: 1, Dst: 2, Payload: Payload{ICMP: ICMP{Type: ICMPTypeUnreachable, Code: ICMPCodeHostUnreach}}}
	buf := Encode(nil, d)
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Payload.ICMP != d.Payload.ICMP {
		t.Fatalf("icmp mismatch: got %+v, want %+v", got.Payload.ICMP, d.Payload.ICMP)
	}
}

func TestDecodeNotEnoughBytes(t *testing.T) {
	_, err := Decode(make([]byte, HeaderSize-1))
	if !errors.Is(err, netsim.ErrNotEnoughBytes) {
		t.Fatalf("expected ErrNotEnoughBytes, got %v", err)
	}
}
