// Package ip implements the IP/ARP layer: interface addressing, the
// subnet-mask aware routing decision, the ARP resolution cache, and
// ICMP-unreachable synthesis, all wrapped around an embedded Ethernet
// framer.
package ip

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/arp"
	"github.com/soypat/netsim/ethernet"
	"github.com/soypat/netsim/internal/tracelog"
	"github.com/soypat/netsim/ipv4"
)

// Interface is one (address, port) pair a Device answers to.
type Interface struct {
	Addr netsim.IPAddr
	Port netsim.Port
}

// TaggedDatagram pairs a datagram with the tick it was observed or sent on.
type TaggedDatagram struct {
	T        int
	Datagram ipv4.Datagram
}

// Device is the IP/ARP layer (C6): it embeds an Ethernet framer and adds
// interface addressing, a shared subnet mask, an ARP cache, a routing
// table, and ICMP-unreachable synthesis on resolution failure.
type Device struct {
	*ethernet.Framer
	interfaces []Interface
	mask       netsim.SubnetMask
	arpTable   map[netsim.IPAddr]netsim.MAC
	routeTable map[netsim.NetworkPart]netsim.IPAddr
	RecvLog    []TaggedDatagram
	SendLog    []TaggedDatagram
	log        *slog.Logger
}

// NewDevice returns a Device with numPorts Ethernet ports and the given
// shared subnet mask.
func NewDevice(name string, mac netsim.MAC, numPorts netsim.Port, mask netsim.SubnetMask, log *slog.Logger) *Device {
	return &Device{
		Framer:     ethernet.NewFramer(name, mac, numPorts, log),
		mask:       mask,
		arpTable:   make(map[netsim.IPAddr]netsim.MAC),
		routeTable: make(map[netsim.NetworkPart]netsim.IPAddr),
		log:        log,
	}
}

// AddInterface binds addr to the given Ethernet port.
func (d *Device) AddInterface(addr netsim.IPAddr, port netsim.Port) {
	d.interfaces = append(d.interfaces, Interface{Addr: addr, Port: port})
}

// AddARPEntry preinstalls a resolved (ip -> mac) mapping.
func (d *Device) AddARPEntry(ip netsim.IPAddr, mac netsim.MAC) {
	d.arpTable[ip] = mac
}

// AddRoute installs a (destination network -> next-hop ip) route.
func (d *Device) AddRoute(dst netsim.NetworkPart, nextHop netsim.IPAddr) {
	d.routeTable[dst] = nextHop
}

// Logger returns the logger this device traces through, nil if tracing is
// disabled. Layers embedding a Device (tcp.Host) use it to emit their own
// trace lines at the same destination.
func (d *Device) Logger() *slog.Logger {
	return d.log
}

// ResolvedMAC reports the MAC currently cached in the ARP table for addr.
func (d *Device) ResolvedMAC(addr netsim.IPAddr) (netsim.MAC, bool) {
	mac, ok := d.arpTable[addr]
	return mac, ok
}

// Interfaces returns the device's bound (address, port) pairs.
func (d *Device) Interfaces() []Interface {
	return d.interfaces
}

// HasInterface reports whether addr is bound to one of this device's
// interfaces.
func (d *Device) HasInterface(addr netsim.IPAddr) bool {
	for _, intf := range d.interfaces {
		if intf.Addr == addr {
			return true
		}
	}
	return false
}

// onLink reports whether dst shares a network part with any local interface.
func (d *Device) onLink(dst netsim.IPAddr) bool {
	dstPart := netsim.NewNetworkPart(dst, d.mask)
	for _, intf := range d.interfaces {
		if netsim.NewNetworkPart(intf.Addr, d.mask) == dstPart {
			return true
		}
	}
	return false
}

// findNextMAC resolves the next-hop hardware address for dst, per
// on-link/routed/unreachable precedence.
func (d *Device) findNextMAC(dst netsim.IPAddr) (netsim.MAC, error) {
	if d.onLink(dst) {
		mac, ok := d.arpTable[dst]
		if !ok {
			return 0, netsim.ErrMacNotResolved
		}
		return mac, nil
	}
	part := netsim.NewNetworkPart(dst, d.mask)
	nextHop, ok := d.routeTable[part]
	if !ok {
		return 0, netsim.ErrMacNotResolved
	}
	mac, ok := d.arpTable[nextHop]
	if !ok {
		return 0, netsim.ErrMacNotResolved
	}
	return mac, nil
}

// PollRecv drains the underlying Ethernet layer, filters frames not
// addressed to this device (own MAC or broadcast), dispatches ARP packets
// to the ARP handler, and returns the decoded IPv4 datagrams for the caller
// to process.
func (d *Device) PollRecv(ctx netsim.UpdateContext) ([]ipv4.Datagram, error) {
	d.Framer.PollRecv(ctx)
	var datagrams []ipv4.Datagram
	for {
		f, ok := d.Framer.PopFrame()
		if !ok {
			break
		}
		if f.Dst != d.MAC() && !f.IsBroadcast() {
			continue
		}
		switch f.EtherType {
		case ethernet.TypeARP:
			pkt, err := arp.Decode(f.Payload)
			if err != nil {
				return nil, err
			}
			d.handleARP(ctx, pkt)
		case ethernet.TypeIPv4:
			dg, err := ipv4.Decode(f.Payload)
			if err != nil {
				return nil, err
			}
			d.RecvLog = append(d.RecvLog, TaggedDatagram{T: ctx.T, Datagram: dg})
			datagrams = append(datagrams, dg)
		default:
			return nil, &netsim.InvalidBytesError{Msg: "unexpected ethertype at ip layer"}
		}
	}
	return datagrams, nil
}

func (d *Device) handleARP(ctx netsim.UpdateContext, pkt arp.Packet) {
	if !d.HasInterface(pkt.TargetIP) {
		return
	}
	switch pkt.Opcode {
	case arp.OpRequest:
		reply := arp.Reply(pkt, d.MAC())
		d.sendARP(ctx, reply)
	case arp.OpReply:
		d.arpTable[pkt.SenderIP] = pkt.SenderMAC
	}
	if tracelog.CategoryEnabled(netsim.VerbosityFrame) {
		tracelog.LogAttrs(d.log, slog.LevelDebug, "arp handled",
			slog.String("packet", pkt.String()), slog.Int("tick", ctx.T))
	}
}

// SendARPRequest emits an ARP request for targetIP from srcIP, broadcast on
// the Ethernet layer.
func (d *Device) SendARPRequest(ctx netsim.UpdateContext, srcIP, targetIP netsim.IPAddr) {
	d.sendARP(ctx, arp.NewRequest(d.MAC(), srcIP, targetIP))
}

func (d *Device) sendARP(ctx netsim.UpdateContext, pkt arp.Packet) {
	dstMAC := netsim.MACBroadcast
	if pkt.Opcode == arp.OpReply {
		dstMAC = pkt.TargetMAC
	}
	payload := arp.Encode(nil, pkt)
	d.Framer.SendFrame(ctx, ethernet.Frame{Dst: dstMAC, Src: d.MAC(), EtherType: ethernet.TypeARP, Payload: payload})
}

// SendDatagram resolves the next-hop MAC for dg.Dst and emits dg as an
// Ethernet frame. If resolution fails, it synthesizes an ICMP-unreachable
// datagram addressed back to dg.Src and sends that instead; if that
// datagram cannot be resolved either (e.g. no route back to the original
// sender), it is dropped. Resolution failure is never reported to the caller.
func (d *Device) SendDatagram(ctx netsim.UpdateContext, dg ipv4.Datagram) error {
	mac, err := d.findNextMAC(dg.Dst)
	if err != nil {
		if dg.Protocol == ipv4.ProtoICMP {
			return nil // drop: avoid an unreachable->unreachable loop.
		}
		unreachable := ipv4.Datagram{
			TTL:      64,
			Protocol: ipv4.ProtoICMP,
			Src:      d.ownAddr(),
			Dst:      dg.Src,
			Payload:  ipv4.Payload{ICMP: ipv4.ICMP{Type: ipv4.ICMPTypeUnreachable, Code: ipv4.ICMPCodeHostUnreach}},
		}
		return d.SendDatagram(ctx, unreachable)
	}
	d.encodeAndSend(ctx, dg, mac)
	return nil
}

// ownAddr returns this device's first interface address, used as the
// source of a synthesized ICMP reply; a device with no interfaces has
// nothing meaningful to put there.
func (d *Device) ownAddr() netsim.IPAddr {
	if len(d.interfaces) == 0 {
		return 0
	}
	return d.interfaces[0].Addr
}

func (d *Device) encodeAndSend(ctx netsim.UpdateContext, dg ipv4.Datagram, mac netsim.MAC) {
	payload := ipv4.Encode(nil, dg)
	d.Framer.SendFrame(ctx, ethernet.Frame{Dst: mac, Src: d.MAC(), EtherType: ethernet.TypeIPv4, Payload: payload})
	d.SendLog = append(d.SendLog, TaggedDatagram{T: ctx.T, Datagram: dg})
}

// RefreshForwardingTable installs (mac -> port) into the Ethernet layer's
// forwarding table for every ARP entry whose network part matches a local
// interface, keeping the learning-bridge table honest as the ARP cache
// changes. It runs unconditionally every tick.
func (d *Device) RefreshForwardingTable() {
	for ip, mac := range d.arpTable {
		part := netsim.NewNetworkPart(ip, d.mask)
		for _, intf := range d.interfaces {
			if netsim.NewNetworkPart(intf.Addr, d.mask) == part {
				d.InstallForwarding(mac, intf.Port)
			}
		}
	}
}
