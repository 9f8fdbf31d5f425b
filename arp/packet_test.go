package arp

import (
	"errors"
	"testing"

	"github.com/soypat/netsim"
)

func TestPacketRoundTrip(t *testing.T) {
	p := Packet{HWType: 1, ProtoType: 1, Opcode: OpRequest, SenderMAC: 1, SenderIP: 0x0a000001, TargetMAC: 0, TargetIP: 0x0a000002}
	buf := Encode(nil, p)
	if len(buf) != Size {
		t.Fatalf("encoded length %d, want %d", len(buf), Size)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestReplySwapsRoles(t *testing.T) {
	req := NewRequest(1, 0x0a000001, 0x0a000002)
	reply := Reply(req, 2)
	if reply.Opcode != OpReply {
		t.Fatal("expected reply opcode")
	}
	if reply.SenderMAC != 2 || reply.SenderIP != req.TargetIP {
		t.Fatalf("expected responder as sender: %+v", reply)
	}
	if reply.TargetMAC != req.SenderMAC || reply.TargetIP != req.SenderIP {
		t.Fatalf("expected requester as target: %+v", reply)
	}
}

func TestDecodeNotEnoughBytes(t *testing.T) {
	_, err := Decode(make([]byte, Size-1))
	if !errors.Is(err, netsim.ErrNotEnoughBytes) {
		t.Fatalf("expected ErrNotEnoughBytes, got %v", err)
	}
}
