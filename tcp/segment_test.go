package tcp

import (
	"bytes"
	"testing"
)

func TestSegmentRoundTrip(t *testing.T) {
	s := Segment{SrcPort: 10, DstPort: 20, Seq: 1, Ack: 2, Flags: flagSyn, Window: 100, Payload: []byte{1, 2, 3}}
	buf := Encode(nil, s)
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.SrcPort != s.SrcPort || got.DstPort != s.DstPort || got.Flags != s.Flags || got.Window != s.Window {
		t.Fatalf("header mismatch: got %+v, want %+v", got, s)
	}
	if !bytes.Equal(got.Payload, s.Payload) {
		t.Fatalf("payload mismatch: got %v, want %v", got.Payload, s.Payload)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		flags uint8
		want  Tag
	}{
		{flagSyn, TagSyn},
		{flagSyn | flagAck, TagSynAck},
		{flagAck, TagAck},
		{flagFin, TagFin},
		{flagFin | flagAck, TagFinAck},
		{0, TagData},
	}
	for _, tt := range tests {
		if got := classify(tt.flags); got != tt.want {
			t.Errorf("classify(0x%02x) = %v, want %v", tt.flags, got, tt.want)
		}
	}
}
