// Package tcp implements the minimal reliable-stream transport: a segment
// codec classified purely by its flags byte, and a host that drives one
// socket through a 9-state machine from application instructions and
// received segments.
package tcp

import (
	"fmt"

	"github.com/soypat/netsim"
)

// HeaderSize is the fixed segment header length; options are never emitted.
const HeaderSize = 20

// Flag bit values, combined into the flags byte carried by every segment.
const (
	flagFin = 0x01
	flagSyn = 0x02
	flagAck = 0x10
)

// Tag classifies a segment by its flags byte into one of six content kinds
// the state machine reacts to.
type Tag uint8

const (
	TagSyn Tag = iota
	TagSynAck
	TagAck
	TagFin
	TagFinAck
	TagData
)

func (t Tag) String() string {
	switch t {
	case TagSyn:
		return "Syn"
	case TagSynAck:
		return "SynAck"
	case TagAck:
		return "Ack"
	case TagFin:
		return "Fin"
	case TagFinAck:
		return "FinAck"
	case TagData:
		return "Data"
	default:
		return "unknown"
	}
}

// classify maps a flags byte to a Tag; the payload is not consulted.
// Flag combinations other than the five named ones fall back to Data,
// whether or not a payload is present,
// matching the source's catch-all behavior; the state machine is what
// ultimately rejects a Data segment the current state does not expect.
func classify(flags uint8) Tag {
	switch flags {
	case flagSyn:
		return TagSyn
	case flagSyn | flagAck:
		return TagSynAck
	case flagAck:
		return TagAck
	case flagFin:
		return TagFin
	case flagFin | flagAck:
		return TagFinAck
	default:
		return TagData
	}
}

func (t Tag) flags() uint8 {
	switch t {
	case TagSyn:
		return flagSyn
	case TagSynAck:
		return flagSyn | flagAck
	case TagAck:
		return flagAck
	case TagFin:
		return flagFin
	case TagFinAck:
		return flagFin | flagAck
	default:
		return 0
	}
}

// Segment is one TCP-layer message. Seq/Ack are carried opaquely: this
// system never increments them meaningfully, so Data/App code should not
// rely on their arithmetic, only on their presence.
type Segment struct {
	SrcPort, DstPort netsim.TPort
	Seq, Ack         uint32
	Flags            uint8
	Window           uint16
	Payload          []byte
}

// Tag returns the segment's classification.
func (s Segment) Tag() Tag { return classify(s.Flags) }

// String renders s for trace logging, doubling as the content the Transport
// verbosity category's slog lines carry.
func (s Segment) String() string {
	return fmt.Sprintf("%s %d->%d len=%d", s.Tag(), s.SrcPort, s.DstPort, len(s.Payload))
}

// Encode appends the wire representation of s to dst.
func Encode(dst []byte, s Segment) []byte {
	var buf2 [2]byte
	netsim.PutUint16(buf2[:], uint16(s.SrcPort))
	dst = append(dst, buf2[:]...)
	netsim.PutUint16(buf2[:], uint16(s.DstPort))
	dst = append(dst, buf2[:]...)
	var buf4 [4]byte
	netsim.PutUint32(buf4[:], s.Seq)
	dst = append(dst, buf4[:]...)
	netsim.PutUint32(buf4[:], s.Ack)
	dst = append(dst, buf4[:]...)
	dst = append(dst, 5, s.Flags) // data-offset (words), flags
	netsim.PutUint16(buf2[:], s.Window)
	dst = append(dst, buf2[:]...)
	dst = append(dst, 0, 0) // checksum, never validated.
	dst = append(dst, 0, 0) // urgent pointer, unused.
	dst = append(dst, s.Payload...)
	return dst
}

// Decode parses a Segment from buf. The whole remainder of buf after the
// header is taken as payload; callers that embed a segment inside a larger
// IP datagram have already sized the slice to the datagram's payload.
func Decode(buf []byte) (Segment, error) {
	var v netsim.Validator
	v.AddError(netsim.CheckSize(len(buf), HeaderSize))
	if v.HasError() {
		return Segment{}, v.ErrPop()
	}
	s := Segment{
		SrcPort: netsim.TPort(netsim.Uint16(buf[0:2])),
		DstPort: netsim.TPort(netsim.Uint16(buf[2:4])),
		Seq:     netsim.Uint32(buf[4:8]),
		Ack:     netsim.Uint32(buf[8:12]),
		Flags:   buf[13],
		Window:  netsim.Uint16(buf[14:16]),
	}
	payload := buf[HeaderSize:]
	if len(payload) > 0 {
		b := make([]byte, len(payload))
		copy(b, payload)
		s.Payload = b
	}
	return s, nil
}
