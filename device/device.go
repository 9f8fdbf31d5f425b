// Package device defines the byte-level device contract every layered
// simulator component is built on top of, plus the three primitive devices
// (Repeater, ByteHost, Hub) that only speak raw bytes.
package device

import "github.com/soypat/netsim"

// portByte is one entry of a recv/send queue: a byte destined for, or
// arriving from, a specific port.
type portByte struct {
	port netsim.Port
	b    byte
}

// Device is the one contract the fabric requires of anything it drives.
// Concrete devices embed Base and add their own layer on top.
type Device interface {
	MAC() netsim.MAC
	Name() string
	NumPorts() netsim.Port
	PushRecv(port netsim.Port, b byte)
	PopSend() (port netsim.Port, b byte, ok bool)
	// Update steps the device by one tick. A non-nil error is a hard error
	// that stops the run (see netsim's error taxonomy); framing-layer
	// NotEnoughBytes is always swallowed below this boundary.
	Update(ctx netsim.UpdateContext) error
}

// Base implements the queueing half of Device; concrete devices embed it and
// supply their own Update.
type Base struct {
	name     string
	mac      netsim.MAC
	numPorts netsim.Port
	recv     []portByte
	send     []portByte
}

// NewBase constructs a Base with numPorts ports, all queues empty.
func NewBase(name string, mac netsim.MAC, numPorts netsim.Port) Base {
	return Base{name: name, mac: mac, numPorts: numPorts}
}

func (b *Base) MAC() netsim.MAC        { return b.mac }
func (b *Base) Name() string           { return b.name }
func (b *Base) NumPorts() netsim.Port  { return b.numPorts }

// PushRecv delivers one inbound byte for port; it panics if port is out of
// range, mirroring the invariant that every port carried by a queue is
// strictly less than NumPorts.
func (b *Base) PushRecv(port netsim.Port, x byte) {
	if port >= b.numPorts {
		panic("netsim/device: port out of range in PushRecv")
	}
	b.recv = append(b.recv, portByte{port, x})
}

// PopSend drains one outbound byte in FIFO order, if any is queued.
func (b *Base) PopSend() (netsim.Port, byte, bool) {
	if len(b.send) == 0 {
		return 0, 0, false
	}
	pb := b.send[0]
	b.send = b.send[1:]
	return pb.port, pb.b, true
}

// PushSend enqueues one outbound byte for port.
func (b *Base) PushSend(port netsim.Port, x byte) {
	if port >= b.numPorts {
		panic("netsim/device: port out of range in PushSend")
	}
	b.send = append(b.send, portByte{port, x})
}

// PopRecv drains one inbound byte in FIFO order, if any is queued. Layers
// built on top of Base call this from their own Update to consume what the
// fabric delivered during phase A.
func (b *Base) PopRecv() (netsim.Port, byte, bool) {
	if len(b.recv) == 0 {
		return 0, 0, false
	}
	pb := b.recv[0]
	b.recv = b.recv[1:]
	return pb.port, pb.b, true
}

// RecvLen reports how many bytes are queued for receipt, for tests that
// assert on drain-to-empty behavior.
func (b *Base) RecvLen() int { return len(b.recv) }
