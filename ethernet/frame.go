package ethernet

import (
	"fmt"

	"github.com/soypat/netsim"
)

const headerOffset = 8 // bytes of preamble preceding dst/src/ethertype.

// Frame is one Ethernet-layer message: destination and source hardware
// address, an EtherType (or legacy length), and a payload. It is a value
// object — Decode copies the payload out of the wire buffer so a Frame
// outlives the reassembly buffer it was parsed from.
type Frame struct {
	Dst, Src  netsim.MAC
	EtherType EtherType
	Payload   []byte
}

// IsBroadcast reports whether the frame's destination is the reserved
// broadcast address.
func (f Frame) IsBroadcast() bool { return f.Dst.IsBroadcast() }

// String renders f for trace logging, doubling as the content the Frame
// verbosity category's slog lines carry.
func (f Frame) String() string {
	return fmt.Sprintf("%s->%s type=%s len=%d", f.Src, f.Dst, f.EtherType, len(f.Payload))
}

// Encode appends the wire representation of f, preamble included, to dst.
func Encode(dst []byte, f Frame) []byte {
	dst = append(dst, Preamble[:]...)
	var macBuf [6]byte
	netsim.PutMAC(macBuf[:], f.Dst)
	dst = append(dst, macBuf[:]...)
	netsim.PutMAC(macBuf[:], f.Src)
	dst = append(dst, macBuf[:]...)
	dst = append(dst, byte(f.EtherType>>8), byte(f.EtherType))
	dst = append(dst, f.Payload...)
	return dst
}

// Decode attempts to parse one Frame from the front of buf, returning the
// number of bytes consumed. It returns (_, 0, ErrNotEnoughBytes) if buf may
// yet hold a complete frame once more bytes arrive, and an *InvalidBytesError
// if the bytes present can never form a valid frame (the caller must then
// discard the buffer to resynchronize).
func Decode(buf []byte) (Frame, int, error) {
	if len(buf) < headerOffset {
		return Frame{}, 0, netsim.ErrNotEnoughBytes
	}
	// Preamble sync and header-length are independent checks on disjoint
	// parts of buf, so both run before either is reported, mirroring the
	// teacher's accumulate-then-report Validator pattern.
	var v netsim.Validator
	for i, want := range Preamble {
		if buf[i] != want {
			v.AddError(&netsim.InvalidBytesError{Msg: "bad ethernet preamble"})
			break
		}
	}
	if len(buf) < headerOffset+sizeHeader {
		v.AddError(netsim.ErrNotEnoughBytes)
	}
	if v.HasError() {
		return Frame{}, 0, v.ErrPop()
	}
	dst := netsim.GetMAC(buf[headerOffset : headerOffset+6])
	src := netsim.GetMAC(buf[headerOffset+6 : headerOffset+12])
	et := EtherType(netsim.Uint16(buf[headerOffset+12 : headerOffset+14]))
	payloadOff := headerOffset + sizeHeader

	var payloadLen int
	switch {
	case et.IsSize():
		payloadLen = int(et)
	case et == TypeARP:
		payloadLen = sizeARP
	case et == TypeIPv4:
		if len(buf) < payloadOff+4 {
			return Frame{}, 0, netsim.ErrNotEnoughBytes
		}
		payloadLen = int(netsim.Uint16(buf[payloadOff+2 : payloadOff+4]))
	default:
		return Frame{}, 0, &netsim.InvalidBytesError{Msg: "unknown ethertype"}
	}

	total := payloadOff + payloadLen
	v.AddError(netsim.CheckSize(len(buf), total))
	if v.HasError() {
		return Frame{}, 0, v.ErrPop()
	}
	payload := make([]byte, payloadLen)
	copy(payload, buf[payloadOff:total])
	return Frame{Dst: dst, Src: src, EtherType: et, Payload: payload}, total, nil
}
