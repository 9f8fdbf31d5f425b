package ethernet

import (
	"errors"
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/device"
	"github.com/soypat/netsim/internal/tracelog"
)

// TaggedFrame pairs a decoded Frame with the tick it was observed or sent on.
type TaggedFrame struct {
	T     int
	Frame Frame
}

// Framer implements the frame-level half of C4: byte <-> frame codec with
// preamble sync, one reassembly buffer per port, and a learning forwarding
// table. Upper layers (Host, Switch, and the IP device) embed a Framer
// rather than a bare device.Base.
type Framer struct {
	device.Base
	table      map[netsim.MAC]netsim.Port
	reassembly [][]byte
	rx         []Frame
	RecvLog    []TaggedFrame
	SendLog    []TaggedFrame
	log        *slog.Logger
}

// NewFramer returns a Framer with numPorts ports and an empty forwarding
// table. A nil logger disables tracing.
func NewFramer(name string, mac netsim.MAC, numPorts netsim.Port, log *slog.Logger) *Framer {
	return &Framer{
		Base:       device.NewBase(name, mac, numPorts),
		table:      make(map[netsim.MAC]netsim.Port),
		reassembly: make([][]byte, numPorts),
		log:        log,
	}
}

// PollRecv drains the underlying byte receive queue, feeding each byte to
// its port's reassembly buffer and attempting to decode a frame after every
// byte. It must run before the embedding device inspects PopFrame results
// for the current tick.
func (fr *Framer) PollRecv(ctx netsim.UpdateContext) {
	for {
		port, b, ok := fr.PopRecv()
		if !ok {
			break
		}
		fr.reassembly[port] = append(fr.reassembly[port], b)
		frame, n, err := Decode(fr.reassembly[port])
		switch {
		case err == nil:
			fr.table[frame.Src] = port
			fr.reassembly[port] = fr.reassembly[port][n:]
			fr.rx = append(fr.rx, frame)
			fr.RecvLog = append(fr.RecvLog, TaggedFrame{T: ctx.T, Frame: frame})
			if tracelog.CategoryEnabled(netsim.VerbosityFrame) {
				tracelog.LogAttrs(fr.log, slog.LevelDebug, "frame decoded",
					slog.String("frame", frame.String()), slog.Any("port", port), slog.Int("tick", ctx.T))
			}
		case errors.Is(err, netsim.ErrNotEnoughBytes):
			// keep accumulating.
		default:
			fr.reassembly[port] = fr.reassembly[port][:0]
			if tracelog.CategoryEnabled(netsim.VerbosityFrame) {
				tracelog.LogAttrs(fr.log, slog.LevelWarn, "frame resync", slog.Any("port", port), slog.String("err", err.Error()))
			}
		}
	}
}

// PopFrame returns the next decoded frame awaiting the upper layer, if any.
func (fr *Framer) PopFrame() (Frame, bool) {
	if len(fr.rx) == 0 {
		return Frame{}, false
	}
	f := fr.rx[0]
	fr.rx = fr.rx[1:]
	return f, true
}

// SendFrame chooses egress ports for f per the forwarding-table rules
// (known destination -> single port, known source -> flood-except-incoming,
// unknown -> flood) and enqueues its encoding onto each of them.
func (fr *Framer) SendFrame(ctx netsim.UpdateContext, f Frame) {
	ports := fr.egressPorts(f)
	buf := Encode(nil, f)
	for _, p := range ports {
		for _, b := range buf {
			fr.PushSend(p, b)
		}
	}
	fr.SendLog = append(fr.SendLog, TaggedFrame{T: ctx.T, Frame: f})
	if tracelog.CategoryEnabled(netsim.VerbosityFrame) {
		tracelog.LogAttrs(fr.log, slog.LevelDebug, "frame sent",
			slog.String("frame", f.String()), slog.Any("ports", ports), slog.Int("tick", ctx.T))
	}
}

func (fr *Framer) egressPorts(f Frame) []netsim.Port {
	if p, ok := fr.table[f.Dst]; ok {
		return []netsim.Port{p}
	}
	if srcPort, ok := fr.table[f.Src]; ok {
		ports := make([]netsim.Port, 0, fr.NumPorts())
		for p := netsim.Port(0); p < fr.NumPorts(); p++ {
			if p != srcPort {
				ports = append(ports, p)
			}
		}
		return ports
	}
	ports := make([]netsim.Port, fr.NumPorts())
	for p := range ports {
		ports[p] = netsim.Port(p)
	}
	return ports
}

// InstallForwarding installs a static (mac -> port) entry, used by upper
// layers to keep the learning table honest after ARP/route resolution.
func (fr *Framer) InstallForwarding(mac netsim.MAC, port netsim.Port) {
	fr.table[mac] = port
}
