package device

import (
	"testing"

	"github.com/soypat/netsim"
)

func TestRepeaterSwapsPort(t *testing.T) {
	r := NewRepeater("r", 1)
	r.PushRecv(0, 0x42)
	r.PushRecv(1, 0x43)
	r.Update(upd(0))
	p, b, ok := r.PopSend()
	if !ok || p != 1 || b != 0x42 {
		t.Fatalf("got (%d,%x,%v), want (1,0x42,true)", p, b, ok)
	}
	p, b, ok = r.PopSend()
	if !ok || p != 0 || b != 0x43 {
		t.Fatalf("got (%d,%x,%v), want (0,0x43,true)", p, b, ok)
	}
	if _, _, ok = r.PopSend(); ok {
		t.Fatal("expected send queue to be drained")
	}
}

func TestByteHostSchedule(t *testing.T) {
	h := NewByteHost("h", 1)
	h.Schedule(2, 0, 0x01)
	h.Update(upd(0))
	if _, _, ok := h.PopSend(); ok {
		t.Fatal("nothing scheduled for tick 0")
	}
	h.Update(upd(2))
	_, b, ok := h.PopSend()
	if !ok || b != 0x01 {
		t.Fatalf("got (%x,%v), want (0x01,true)", b, ok)
	}
}

func TestByteHostLogsReceived(t *testing.T) {
	h := NewByteHost("h", 1)
	h.PushRecv(0, 0x9)
	h.Update(upd(3))
	if len(h.RecvLog) != 1 || h.RecvLog[0].B != 0x9 || h.RecvLog[0].T != 3 {
		t.Fatalf("unexpected log: %+v", h.RecvLog)
	}
}

func TestHubFloodsAtThreshold(t *testing.T) {
	h := NewHub("hub", 1, 3, 2)
	h.PushRecv(0, 0xAA)
	h.Update(upd(0))
	if _, _, ok := h.PopSend(); ok {
		t.Fatal("expected no flood before threshold")
	}
	h.PushRecv(0, 0xBB)
	h.Update(upd(1))
	var got []byte
	for {
		_, b, ok := h.PopSend()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if len(got) != 4 { // 2 bytes x 2 other ports
		t.Fatalf("expected 4 bytes flooded, got %v", got)
	}
}

func upd(t int) netsim.UpdateContext {
	return netsim.UpdateContext{T: t}
}
