package ip

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/ipv4"
)

// Router wraps a Device and forwards every datagram not destined for one of
// its own interfaces. Its routing table is populated at topology
// construction time by the scenario builder, never learned dynamically.
type Router struct {
	*Device
}

// NewRouter returns a Router with numPorts Ethernet ports.
func NewRouter(name string, mac netsim.MAC, numPorts netsim.Port, mask netsim.SubnetMask, log *slog.Logger) *Router {
	return &Router{Device: NewDevice(name, mac, numPorts, mask, log)}
}

// Update processes received frames and forwards every datagram whose
// destination is not one of the router's own interfaces. A Bytes datagram
// terminating at the router itself is a topology-construction mistake: a
// router is never meant to be the endpoint of application data, so Update
// panics rather than silently accepting it, matching the source's behavior.
func (r *Router) Update(ctx netsim.UpdateContext) error {
	datagrams, err := r.PollRecv(ctx)
	if err != nil {
		return err
	}
	for _, dg := range datagrams {
		if r.HasInterface(dg.Dst) {
			if dg.Protocol == ipv4.ProtoBytes {
				panic("netsim/ip: router received application data addressed to itself")
			}
			continue // ICMP addressed to the router itself: nothing to forward.
		}
		if err := r.SendDatagram(ctx, dg); err != nil {
			return err
		}
	}
	r.RefreshForwardingTable()
	return nil
}
