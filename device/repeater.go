package device

import "github.com/soypat/netsim"

// Repeater is a two-port device that mirrors every byte it receives on one
// port onto the other, with no framing awareness whatsoever.
type Repeater struct {
	Base
}

// NewRepeater returns a Repeater identified by mac with its two ports 0 and 1.
func NewRepeater(name string, mac netsim.MAC) *Repeater {
	return &Repeater{Base: NewBase(name, mac, 2)}
}

// Update drains the receive queue and re-enqueues every (p, x) as (1-p, x).
func (r *Repeater) Update(_ netsim.UpdateContext) error {
	for {
		p, x, ok := r.PopRecv()
		if !ok {
			break
		}
		r.PushSend(1-p, x)
	}
	return nil
}
