package device

import "github.com/soypat/netsim"

// ScheduledByte is one entry of a ByteHost's injection schedule.
type ScheduledByte struct {
	T    int
	Port netsim.Port
	B    byte
}

// ReceivedByte is one logged inbound byte, tagged with the tick it arrived.
type ReceivedByte struct {
	T    int
	Port netsim.Port
	B    byte
}

// ByteHost is a single-port device driven purely by a pre-set schedule; it
// has no framing logic and exists to exercise the fabric's byte-delivery
// semantics in isolation.
type ByteHost struct {
	Base
	schedule []ScheduledByte
	RecvLog  []ReceivedByte
}

// NewByteHost returns a ByteHost with a single port (port 0).
func NewByteHost(name string, mac netsim.MAC) *ByteHost {
	return &ByteHost{Base: NewBase(name, mac, 1)}
}

// Schedule appends an entry to the host's injection schedule.
func (h *ByteHost) Schedule(t int, port netsim.Port, b byte) {
	h.schedule = append(h.schedule, ScheduledByte{T: t, Port: port, B: b})
}

// Update logs every byte received this tick, then emits any scheduled bytes
// whose tick matches ctx.T.
func (h *ByteHost) Update(ctx netsim.UpdateContext) error {
	for {
		p, x, ok := h.PopRecv()
		if !ok {
			break
		}
		h.RecvLog = append(h.RecvLog, ReceivedByte{T: ctx.T, Port: p, B: x})
	}
	for _, s := range h.schedule {
		if s.T == ctx.T {
			h.PushSend(s.Port, s.B)
		}
	}
	return nil
}
