// Package scenario builds the sample topologies used to exercise every
// layer of the simulator and drives them via the fabric's tick loop.
package scenario

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/device"
	"github.com/soypat/netsim/ethernet"
	"github.com/soypat/netsim/fabric"
	"github.com/soypat/netsim/ip"
	"github.com/soypat/netsim/ipv4"
	"github.com/soypat/netsim/tcp"
)

// Result is what a scenario builder hands back to its caller: the fabric
// ready to Run, plus named handles to whatever devices the caller will want
// to inspect afterward.
type Result struct {
	Net     *fabric.Network
	Devices map[string]netsim.MAC
}

// GetDevice is a typed-inspect convenience wrapper over fabric.Network's
// registry, keyed by the scenario's own device names rather than raw MACs.
func (r Result) GetDevice(name string) (any, error) {
	mac, ok := r.Devices[name]
	if !ok {
		return nil, &netsim.DeviceNotFoundError{}
	}
	return r.Net.GetDevice(mac)
}

// Repeater builds host(24) -- repeater(23) -- host(25), scenario 1: a
// single-byte repeater chain.
func Repeater(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	h0 := device.NewByteHost("host0", 24)
	rep := device.NewRepeater("repeater", 23)
	h1 := device.NewByteHost("host1", 25)
	net.Register(h0)
	net.Register(rep)
	net.Register(h1)
	must(net.ConnectBoth(24, 0, 23, 0))
	must(net.ConnectBoth(23, 1, 25, 0))
	h0.Schedule(0, 0, 0x01)
	h0.Schedule(1, 0, 0x02)
	h0.Schedule(2, 0, 0x03)
	h0.Schedule(3, 0, 0x04)
	return Result{Net: net, Devices: devices("host0", netsim.MAC(24), "repeater", netsim.MAC(23), "host1", netsim.MAC(25))}
}

// Bridge builds host_a(23) -- bridge(25) -- host_b(24), scenario 2: two
// hosts joined by a learning bridge.
func Bridge(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	a := ethernet.NewHost("host_a", 23, log)
	b := ethernet.NewHost("host_b", 24, log)
	br := ethernet.NewSwitch("bridge", 25, 2, log)
	net.Register(a)
	net.Register(b)
	net.Register(br)
	must(net.ConnectBoth(23, 0, 25, 0))
	must(net.ConnectBoth(24, 0, 25, 1))
	a.Schedule(0, ethernet.Frame{Dst: 24, Src: 23, EtherType: 3, Payload: []byte{11, 12, 13}})
	return Result{Net: net, Devices: devices("host_a", netsim.MAC(23), "host_b", netsim.MAC(24), "bridge", netsim.MAC(25))}
}

const mask24 = 24

// IPEcho builds two IpHosts directly linked, scenario 3: a Bytes datagram
// echoed back over a direct link.
func IPEcho(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	mask := netsim.NewSubnetMask(mask24)
	h0 := ip.NewHost("host0", 761, 1, mask, log)
	h1 := ip.NewHost("host1", 762, 1, mask, log)
	const ip0, ip1 netsim.IPAddr = 0x0a000001, 0x0a000002
	h0.AddInterface(ip0, 0)
	h1.AddInterface(ip1, 0)
	h0.AddARPEntry(ip1, 762)
	h1.AddARPEntry(ip0, 761) // needed so the echo can be delivered back.
	net.Register(h0)
	net.Register(h1)
	must(net.ConnectBoth(761, 0, 762, 0))
	h0.Schedule(0, ipv4.Datagram{TTL: 64, Protocol: ipv4.ProtoBytes, Src: ip0, Dst: ip1, Payload: ipv4.Payload{Bytes: []byte{0x01, 0x02}}})
	return Result{Net: net, Devices: devices("host0", netsim.MAC(761), "host1", netsim.MAC(762))}
}

// ICMPUnreachable builds host_a -- router_a, scenario 4: host_a routes
// 10.1.0.0/24 through router_a, which has no route to that subnet, so a
// datagram toward it must surface IpUnreachable at the originating host.
// Only one router is built; no device fronts 10.1.0.0/24.
func ICMPUnreachable(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	mask := netsim.NewSubnetMask(mask24)
	const (
		ipHostA   netsim.IPAddr = 0x0a000001 // 10.0.0.1
		ipRouterA netsim.IPAddr = 0x0a000002 // 10.0.0.2
		ipRouterB netsim.IPAddr = 0x0a010001 // 10.1.0.1, unreachable subnet
	)
	hostA := ip.NewHost("host_a", 1, 1, mask, log)
	routerA := ip.NewRouter("router_a", 2, 1, mask, log)
	hostA.AddInterface(ipHostA, 0)
	hostA.AddARPEntry(ipRouterA, 2)
	hostA.AddRoute(netsim.NewNetworkPart(ipRouterB, mask), ipRouterA)
	routerA.AddInterface(ipRouterA, 0)
	routerA.AddARPEntry(ipHostA, 1) // needed so the ICMP-unreachable reply can be delivered back.
	// routerA deliberately has no route to 10.1.0.0/24: the unreachable case.
	net.Register(hostA)
	net.Register(routerA)
	must(net.ConnectBoth(1, 0, 2, 0))
	hostA.Schedule(0, ipv4.Datagram{TTL: 64, Protocol: ipv4.ProtoBytes, Src: ipHostA, Dst: ipRouterB, Payload: ipv4.Payload{Bytes: []byte{0xff}}})
	return Result{Net: net, Devices: devices("host_a", netsim.MAC(1), "router_a", netsim.MAC(2))}
}

// RoutedForward builds host_a -- router_a -- router_b -- host_b across three
// subnets (host_a's /24, a router-router transit /24, and host_b's /24),
// scenario 7: router_a's routing table, not its interface set, supplies the
// next hop for host_b's subnet, exercising findNextMAC's routed branch at a
// router rather than only at the originating host.
func RoutedForward(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	mask := netsim.NewSubnetMask(mask24)
	const (
		ipHostA        netsim.IPAddr = 0x0a000001 // 10.0.0.1
		ipRouterALAN   netsim.IPAddr = 0x0a000002 // 10.0.0.2
		ipRouterATrans netsim.IPAddr = 0x0a020001 // 10.2.0.1
		ipRouterBTrans netsim.IPAddr = 0x0a020002 // 10.2.0.2
		ipRouterBLAN   netsim.IPAddr = 0x0a010001 // 10.1.0.1
		ipHostB        netsim.IPAddr = 0x0a010002 // 10.1.0.2
		macHostA       netsim.MAC    = 50
		macRouterA     netsim.MAC    = 51
		macRouterB     netsim.MAC    = 52
		macHostB       netsim.MAC    = 53
	)
	hostA := ip.NewHost("host_a", macHostA, 1, mask, log)
	routerA := ip.NewRouter("router_a", macRouterA, 2, mask, log)
	routerB := ip.NewRouter("router_b", macRouterB, 2, mask, log)
	hostB := ip.NewHost("host_b", macHostB, 1, mask, log)

	hostA.AddInterface(ipHostA, 0)
	hostA.AddARPEntry(ipRouterALAN, macRouterA)
	hostA.AddRoute(netsim.NewNetworkPart(ipHostB, mask), ipRouterALAN)

	routerA.AddInterface(ipRouterALAN, 0)
	routerA.AddInterface(ipRouterATrans, 1)
	routerA.AddARPEntry(ipRouterBTrans, macRouterB) // on-link next hop for the routed subnet.
	routerA.AddRoute(netsim.NewNetworkPart(ipHostB, mask), ipRouterBTrans)

	routerB.AddInterface(ipRouterBTrans, 0)
	routerB.AddInterface(ipRouterBLAN, 1)
	routerB.AddARPEntry(ipHostB, macHostB)

	hostB.AddInterface(ipHostB, 0)
	hostB.Handle = nil // no route back to host_a's subnet; this scenario only checks forward delivery.

	net.Register(hostA)
	net.Register(routerA)
	net.Register(routerB)
	net.Register(hostB)
	must(net.ConnectBoth(macHostA, 0, macRouterA, 0))
	must(net.ConnectBoth(macRouterA, 1, macRouterB, 0))
	must(net.ConnectBoth(macRouterB, 1, macHostB, 0))

	hostA.Schedule(0, ipv4.Datagram{TTL: 64, Protocol: ipv4.ProtoBytes, Src: ipHostA, Dst: ipHostB, Payload: ipv4.Payload{Bytes: []byte{0xaa, 0xbb}}})
	return Result{Net: net, Devices: devices(
		"host_a", macHostA, "router_a", macRouterA, "router_b", macRouterB, "host_b", macHostB,
	)}
}

// ARPResolve builds host_a -- switch -- router(ip_r), scenario 5: host_a
// resolves the router's MAC via ARP with no preinstalled entry.
func ARPResolve(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	mask := netsim.NewSubnetMask(mask24)
	const (
		ipHostA netsim.IPAddr = 0x0a000001
		ipR     netsim.IPAddr = 0x0a000002
	)
	hostA := ip.NewHost("host_a", 10, 1, mask, log)
	sw := ethernet.NewSwitch("switch", 11, 2, log)
	router := ip.NewRouter("router", 12, 1, mask, log)
	hostA.AddInterface(ipHostA, 0)
	router.AddInterface(ipR, 0)
	net.Register(hostA)
	net.Register(sw)
	net.Register(router)
	must(net.ConnectBoth(10, 0, 11, 0))
	must(net.ConnectBoth(12, 0, 11, 1))
	hostA.ScheduleARPRequest(0, ipR)
	return Result{Net: net, Devices: devices("host_a", netsim.MAC(10), "switch", netsim.MAC(11), "router", netsim.MAC(12))}
}

// TCPRoundTrip builds two TCP hosts with preinstalled ARP entries, scenario
// 6: a full Syn/SynAck/Ack handshake, one data exchange, and a Fin/FinAck
// teardown.
func TCPRoundTrip(log *slog.Logger) Result {
	net := fabric.NewNetwork(log)
	mask := netsim.NewSubnetMask(mask24)
	const (
		ipA   netsim.IPAddr = 0x0a000001
		ipB   netsim.IPAddr = 0x0a000002
		port0 netsim.TPort  = 7
		macA  netsim.MAC    = 40
		macB  netsim.MAC    = 41
	)
	hostA := tcp.NewHost("host_a", macA, 1, mask, log)
	hostB := tcp.NewHost("host_b", macB, 1, mask, log)
	hostA.AddInterface(ipA, 0)
	hostB.AddInterface(ipB, 0)
	hostA.AddARPEntry(ipB, macB)
	hostB.AddARPEntry(ipA, macA)
	net.Register(hostA)
	net.Register(hostB)
	must(net.ConnectBoth(macA, 0, macB, 0))

	const sid tcp.SocketID = 0
	hostA.Instruct(tcp.InstSocket(sid))
	hostA.Instruct(tcp.InstConnect(sid, ipB, port0))
	hostA.Instruct(tcp.InstSend(sid, []byte("hello")))
	hostA.Instruct(tcp.InstClose(sid))

	hostB.Instruct(tcp.InstSocket(sid))
	hostB.Instruct(tcp.InstListen(sid, port0))
	hostB.Instruct(tcp.InstRecv(sid))

	return Result{Net: net, Devices: devices("host_a", macA, "host_b", macB)}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func devices(pairs ...any) map[string]netsim.MAC {
	m := make(map[string]netsim.MAC, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name := pairs[i].(string)
		mac := pairs[i+1].(netsim.MAC)
		m[name] = mac
	}
	return m
}
