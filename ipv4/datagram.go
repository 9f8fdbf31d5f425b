// Package ipv4 implements the IP-layer datagram codec: header fields laid
// out in the spirit of RFC 791 but without checksum validation, and a
// payload that is either raw bytes or a minimal ICMP {type, code} pair.
package ipv4

import (
	"fmt"

	"github.com/soypat/netsim"
)

// HeaderSize is the fixed header length; this system never emits options.
const HeaderSize = 20

// Protocol identifies which variant of Payload a datagram carries.
type Protocol uint8

const (
	ProtoBytes Protocol = 0
	ProtoICMP  Protocol = 1
)

func (p Protocol) String() string {
	switch p {
	case ProtoBytes:
		return "bytes"
	case ProtoICMP:
		return "icmp"
	default:
		return "unknown"
	}
}

// ICMP unreachable codes used by this simulator.
const (
	ICMPTypeUnreachable = 3
	ICMPCodeHostUnreach = 1
)

// ICMP is the minimal {type, code} payload this system models; no further
// ICMP semantics (echo, time-exceeded, etc.) are implemented.
type ICMP struct {
	Type, Code uint8
}

// Payload is the tagged union a Datagram carries: exactly one of Bytes or
// ICMP is meaningful, selected by the enclosing Datagram's Protocol.
type Payload struct {
	Bytes []byte
	ICMP  ICMP
}

// Datagram is one IP-layer message.
type Datagram struct {
	ToS      uint8
	ID       uint16
	Flags    uint16
	TTL      uint8
	Protocol Protocol
	Src, Dst netsim.IPAddr
	Payload  Payload
}

// String renders d in a short human-readable form. No trace line in this
// module emits it.
func (d Datagram) String() string {
	return fmt.Sprintf("%s->%s proto=%s ttl=%d", d.Src, d.Dst, d.Protocol, d.TTL)
}

func payloadLen(p Protocol, pl Payload) int {
	if p == ProtoICMP {
		return 2
	}
	return len(pl.Bytes)
}

// Encode appends the wire representation of d to dst.
func Encode(dst []byte, d Datagram) []byte {
	plen := payloadLen(d.Protocol, d.Payload)
	total := HeaderSize + plen
	dst = append(dst, 0x45, d.ToS, 0, 0) // version_ihl, tos, total length placeholder
	netsim.PutUint16(dst[len(dst)-2:], uint16(total))
	var buf2 [2]byte
	netsim.PutUint16(buf2[:], d.ID)
	dst = append(dst, buf2[:]...)
	netsim.PutUint16(buf2[:], d.Flags)
	dst = append(dst, buf2[:]...)
	dst = append(dst, d.TTL, byte(d.Protocol), 0, 0) // ttl, protocol, checksum placeholder
	var buf4 [4]byte
	netsim.PutUint32(buf4[:], uint32(d.Src))
	dst = append(dst, buf4[:]...)
	netsim.PutUint32(buf4[:], uint32(d.Dst))
	dst = append(dst, buf4[:]...)
	if d.Protocol == ProtoICMP {
		dst = append(dst, d.Payload.ICMP.Type, d.Payload.ICMP.Code)
	} else {
		dst = append(dst, d.Payload.Bytes...)
	}
	return dst
}

// Decode parses a Datagram from buf. The caller (the Ethernet framer) is
// responsible for having already sized buf to the datagram's total length
// using the same offset-2 field Decode reads here.
func Decode(buf []byte) (Datagram, error) {
	var v netsim.Validator
	v.AddError(netsim.CheckSize(len(buf), HeaderSize))
	if v.HasError() {
		return Datagram{}, v.ErrPop()
	}
	total := int(netsim.Uint16(buf[2:4]))
	v.AddError(netsim.CheckSize(len(buf), total))
	if v.HasError() {
		return Datagram{}, v.ErrPop()
	}
	d := Datagram{
		ToS:      buf[1],
		ID:       netsim.Uint16(buf[4:6]),
		Flags:    netsim.Uint16(buf[6:8]),
		TTL:      buf[8],
		Protocol: Protocol(buf[9]),
		Src:      netsim.IPAddr(netsim.Uint32(buf[12:16])),
		Dst:      netsim.IPAddr(netsim.Uint32(buf[16:20])),
	}
	payload := buf[HeaderSize:total]
	switch d.Protocol {
	case ProtoICMP:
		v.AddError(netsim.CheckSize(len(payload), 2))
		if v.HasError() {
			return Datagram{}, v.ErrPop()
		}
		d.Payload.ICMP = ICMP{Type: payload[0], Code: payload[1]}
	default:
		b := make([]byte, len(payload))
		copy(b, payload)
		d.Payload.Bytes = b
	}
	return d, nil
}
