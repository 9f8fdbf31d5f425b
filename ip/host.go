package ip

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/ipv4"
)

// ScheduledProtocol is one entry of a Host's injection schedule: either an
// IP datagram to send, or (when Datagram is nil) an ARP request for
// ARPTargetIP from the host's first interface.
type ScheduledProtocol struct {
	T           int
	Datagram    *ipv4.Datagram
	ARPTargetIP netsim.IPAddr
}

// Host wraps a Device, adding a schedule of protocols to inject and an
// application-level reply handler for Bytes payloads addressed to it.
type Host struct {
	*Device
	schedule []ScheduledProtocol
	// Handle transforms an inbound Bytes payload into an outbound reply
	// payload; a nil return means "consume, do not reply". The default,
	// set by NewHost, is an echo.
	Handle func(payload []byte) []byte
}

// NewHost returns a Host whose default Handle echoes every payload back.
func NewHost(name string, mac netsim.MAC, numPorts netsim.Port, mask netsim.SubnetMask, log *slog.Logger) *Host {
	h := &Host{Device: NewDevice(name, mac, numPorts, mask, log)}
	h.Handle = func(payload []byte) []byte { return payload }
	return h
}

// Schedule appends a datagram to the host's injection schedule.
func (h *Host) Schedule(t int, dg ipv4.Datagram) {
	h.schedule = append(h.schedule, ScheduledProtocol{T: t, Datagram: &dg})
}

// ScheduleARPRequest appends an ARP request for targetIP to the schedule.
func (h *Host) ScheduleARPRequest(t int, targetIP netsim.IPAddr) {
	h.schedule = append(h.schedule, ScheduledProtocol{T: t, ARPTargetIP: targetIP})
}

// Update injects any scheduled protocol for ctx.T, processes received
// frames, and replies to Bytes datagrams addressed to it via Handle. ICMP
// unreachable datagrams addressed to it are surfaced as an IpUnreachable
// error, per the spec's host-level error propagation.
func (h *Host) Update(ctx netsim.UpdateContext) error {
	datagrams, err := h.PollRecv(ctx)
	if err != nil {
		return err
	}
	for _, s := range h.schedule {
		if s.T != ctx.T {
			continue
		}
		if s.Datagram != nil {
			if err := h.SendDatagram(ctx, *s.Datagram); err != nil {
				return err
			}
		} else if len(h.interfaces) > 0 {
			h.SendARPRequest(ctx, h.interfaces[0].Addr, s.ARPTargetIP)
		}
	}
	for _, dg := range datagrams {
		if !h.HasInterface(dg.Dst) {
			continue // hosts do not forward; they drop.
		}
		if err := h.handleInbound(ctx, dg); err != nil {
			return err
		}
	}
	h.RefreshForwardingTable()
	return nil
}

func (h *Host) handleInbound(ctx netsim.UpdateContext, dg ipv4.Datagram) error {
	if dg.Protocol == ipv4.ProtoICMP {
		if dg.Payload.ICMP.Type == ipv4.ICMPTypeUnreachable {
			return &netsim.IpUnreachableError{Code: dg.Payload.ICMP.Code}
		}
		return nil
	}
	if h.Handle == nil {
		return nil
	}
	out := h.Handle(dg.Payload.Bytes)
	if out == nil {
		return nil
	}
	reply := dg
	reply.Src, reply.Dst = dg.Dst, dg.Src
	reply.Payload.Bytes = out
	return h.SendDatagram(ctx, reply)
}
