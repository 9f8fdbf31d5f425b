package device

import "github.com/soypat/netsim"

// Hub is an N-port device that accumulates bytes per ingress port and, once
// a port's buffer reaches storeSize, floods the accumulated bytes to every
// other port and clears that buffer. Unlike Repeater it never speaks
// framing; storeSize only governs how eagerly it batches.
type Hub struct {
	Base
	storeSize int
	bufs      [][]byte
}

// NewHub returns a Hub with numPorts ports, flooding once storeSize bytes
// have accumulated on an ingress port.
func NewHub(name string, mac netsim.MAC, numPorts netsim.Port, storeSize int) *Hub {
	return &Hub{
		Base:      NewBase(name, mac, numPorts),
		storeSize: storeSize,
		bufs:      make([][]byte, numPorts),
	}
}

// Update drains the receive queue into per-port buffers and floods any
// buffer that has reached storeSize.
func (h *Hub) Update(_ netsim.UpdateContext) error {
	for {
		p, x, ok := h.PopRecv()
		if !ok {
			break
		}
		h.bufs[p] = append(h.bufs[p], x)
	}
	for p, buf := range h.bufs {
		if len(buf) < h.storeSize {
			continue
		}
		for p2 := netsim.Port(0); p2 < h.NumPorts(); p2++ {
			if int(p2) == p {
				continue
			}
			for _, x := range buf {
				h.PushSend(p2, x)
			}
		}
		h.bufs[p] = nil
	}
	return nil
}
