// Package fabric implements the network registry and directed-link table
// that ties devices together and drives the simulator's discrete-tick loop.
package fabric

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/device"
	"github.com/soypat/netsim/internal/tracelog"
)

type linkKey struct {
	mac  netsim.MAC
	port netsim.Port
}

type linkTarget struct {
	mac  netsim.MAC
	port netsim.Port
}

// Network is a registry of devices plus a directed link table between their
// ports. It owns the tick driver: Run delivers in-flight bytes and steps
// every device, in registration order, once per tick.
type Network struct {
	order   []netsim.MAC
	devices map[netsim.MAC]device.Device
	links   map[linkKey]linkTarget
	log     *slog.Logger
}

// NewNetwork returns an empty registry. A nil logger disables all tracing.
func NewNetwork(log *slog.Logger) *Network {
	return &Network{
		devices: make(map[netsim.MAC]device.Device),
		links:   make(map[linkKey]linkTarget),
		log:     log,
	}
}

// Register adds d to the network. Registration order is the order Run
// visits devices within each phase.
func (n *Network) Register(d device.Device) {
	mac := d.MAC()
	if _, exists := n.devices[mac]; !exists {
		n.order = append(n.order, mac)
	}
	n.devices[mac] = d
}

// GetDevice looks up a registered device by MAC.
func (n *Network) GetDevice(mac netsim.MAC) (device.Device, error) {
	d, ok := n.devices[mac]
	if !ok {
		return nil, &netsim.DeviceNotFoundError{MAC: mac}
	}
	return d, nil
}

// Connect installs one directed link from (m0,p0) to (m1,p1). It fails if
// either device is unregistered, if p0 is out of range for m0, if m0==m1, or
// if a link already originates at (m0,p0).
func (n *Network) Connect(m0 netsim.MAC, p0 netsim.Port, m1 netsim.MAC, p1 netsim.Port) error {
	if m0 == m1 {
		return &netsim.NetworkConnectFailedError{MAC0: m0, MAC1: m1, Msg: "self-loop"}
	}
	src, ok := n.devices[m0]
	if !ok {
		return &netsim.DeviceNotFoundError{MAC: m0}
	}
	if _, ok := n.devices[m1]; !ok {
		return &netsim.DeviceNotFoundError{MAC: m1}
	}
	if p0 >= src.NumPorts() {
		return &netsim.NetworkConnectFailedError{MAC0: m0, MAC1: m1, Msg: "source port out of range"}
	}
	key := linkKey{m0, p0}
	if _, exists := n.links[key]; exists {
		return &netsim.NetworkConnectFailedError{MAC0: m0, MAC1: m1, Msg: "link already originates at this port"}
	}
	n.links[key] = linkTarget{m1, p1}
	return nil
}

// ConnectBoth installs both directions of a bidirectional link. If either
// half fails, the network is left unchanged.
func (n *Network) ConnectBoth(m0 netsim.MAC, p0 netsim.Port, m1 netsim.MAC, p1 netsim.Port) error {
	if err := n.Connect(m0, p0, m1, p1); err != nil {
		return err
	}
	if err := n.Connect(m1, p1, m0, p0); err != nil {
		delete(n.links, linkKey{m0, p0})
		return err
	}
	return nil
}

// Run advances the simulator for maxT ticks. Each tick first snapshots and
// delivers every device's single queued outbound byte to its link peer
// (phase A), then steps every device's Update (phase B) in registration
// order. A byte emitted during tick t's Update is therefore not observed by
// its peer until tick t+1's Update, never during tick t itself.
func (n *Network) Run(maxT int) error {
	for t := 0; t < maxT; t++ {
		ctx := netsim.UpdateContext{T: t}
		if err := n.deliver(ctx); err != nil {
			return err
		}
		for _, mac := range n.order {
			d := n.devices[mac]
			if err := d.Update(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (n *Network) deliver(ctx netsim.UpdateContext) error {
	for _, mac := range n.order {
		d := n.devices[mac]
		port, b, ok := d.PopSend()
		if !ok {
			continue
		}
		target, ok := n.links[linkKey{mac, port}]
		if !ok {
			return &netsim.ConnectionNotFoundError{MAC: mac, Port: port}
		}
		peer, err := n.GetDevice(target.mac)
		if err != nil {
			return err
		}
		if tracelog.CategoryEnabled(netsim.VerbosityByte) {
			tracelog.LogAttrs(n.log, tracelog.LevelTrace, "wire byte",
				slog.String("src_mac", mac.String()), slog.Any("src_port", port),
				slog.String("dst_mac", target.mac.String()), slog.Any("dst_port", target.port),
				slog.Int("tick", ctx.T))
		}
		peer.PushRecv(target.port, b)
	}
	return nil
}
