// Package arp implements the fixed-size ARP packet codec and the request <->
// reply construction helper; resolution state (the ARP cache) lives one
// layer up in package ip, since it is shared with the routing decision.
package arp

import (
	"fmt"

	"github.com/soypat/netsim"
)

// Size is the fixed wire length of an ARP packet.
const Size = 24

// Opcode distinguishes a request from a reply.
type Opcode uint8

const (
	OpRequest Opcode = 1
	OpReply   Opcode = 2
)

func (op Opcode) String() string {
	switch op {
	case OpRequest:
		return "request"
	case OpReply:
		return "reply"
	default:
		return "unknown"
	}
}

// Packet is one ARP-layer message. HWType/ProtoType are carried as a single
// byte each (rather than the 2-byte fields of a byte-exact ARP packet) since
// this system's wire format only needs to round-trip through its own codec.
type Packet struct {
	HWType, ProtoType uint8
	Opcode            Opcode
	SenderMAC         netsim.MAC
	SenderIP          netsim.IPAddr
	TargetMAC         netsim.MAC
	TargetIP          netsim.IPAddr
}

// String renders p for trace logging, doubling as the content the Frame
// verbosity category's slog lines carry.
func (p Packet) String() string {
	return fmt.Sprintf("%s who-has %s tell %s (%s)", p.Opcode, p.TargetIP, p.SenderIP, p.SenderMAC)
}

// Encode appends the 24-byte wire representation of p to dst.
func Encode(dst []byte, p Packet) []byte {
	dst = append(dst, p.HWType, p.ProtoType, 0, byte(p.Opcode))
	var macBuf [6]byte
	netsim.PutMAC(macBuf[:], p.SenderMAC)
	dst = append(dst, macBuf[:]...)
	var ipBuf [4]byte
	netsim.PutUint32(ipBuf[:], uint32(p.SenderIP))
	dst = append(dst, ipBuf[:]...)
	netsim.PutMAC(macBuf[:], p.TargetMAC)
	dst = append(dst, macBuf[:]...)
	netsim.PutUint32(ipBuf[:], uint32(p.TargetIP))
	dst = append(dst, ipBuf[:]...)
	return dst
}

// Decode parses a Packet from the first Size bytes of buf.
func Decode(buf []byte) (Packet, error) {
	var v netsim.Validator
	v.AddError(netsim.CheckSize(len(buf), Size))
	if v.HasError() {
		return Packet{}, v.ErrPop()
	}
	p := Packet{
		HWType:    buf[0],
		ProtoType: buf[1],
		Opcode:    Opcode(buf[3]),
		SenderMAC: netsim.GetMAC(buf[4:10]),
		SenderIP:  netsim.IPAddr(netsim.Uint32(buf[10:14])),
		TargetMAC: netsim.GetMAC(buf[14:20]),
		TargetIP:  netsim.IPAddr(netsim.Uint32(buf[20:24])),
	}
	if p.Opcode != OpRequest && p.Opcode != OpReply {
		v.AddError(&netsim.InvalidBytesError{Msg: "unsupported arp opcode"})
	}
	if v.HasError() {
		return Packet{}, v.ErrPop()
	}
	return p, nil
}

// Reply builds the reply packet for a request, swapping sender/target roles
// and filling in the responder's MAC as the new sender.
func Reply(req Packet, responderMAC netsim.MAC) Packet {
	return Packet{
		HWType:    req.HWType,
		ProtoType: req.ProtoType,
		Opcode:    OpReply,
		SenderMAC: responderMAC,
		SenderIP:  req.TargetIP,
		TargetMAC: req.SenderMAC,
		TargetIP:  req.SenderIP,
	}
}

// NewRequest builds a request asking who has targetIP, identifying the
// requester by senderMAC/senderIP. TargetMAC is left zero, as on the wire.
func NewRequest(senderMAC netsim.MAC, senderIP, targetIP netsim.IPAddr) Packet {
	return Packet{
		HWType:    1,
		ProtoType: 1,
		Opcode:    OpRequest,
		SenderMAC: senderMAC,
		SenderIP:  senderIP,
		TargetIP:  targetIP,
	}
}
