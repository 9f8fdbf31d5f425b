package ethernet

import (
	"log/slog"

	"github.com/soypat/netsim"
)

// ScheduledFrame is one entry of a Host's injection schedule.
type ScheduledFrame struct {
	T     int
	Frame Frame
}

// ReplyMode selects how a Host reacts to a frame addressed to it, mirroring
// the source's boxed "payload transformer" as a three-way enum rather than a
// function value, since the three behaviors cover every scenario this
// simulator needs.
type ReplyMode int

const (
	// ReplyConsume silently absorbs frames addressed to the host.
	ReplyConsume ReplyMode = iota
	// ReplyEcho swaps src/dst and re-sends the same payload.
	ReplyEcho
	// ReplyCustom invokes Host.Transform to compute the reply payload; a nil
	// return means "consume, do not reply".
	ReplyCustom
)

// Host is a single-port Ethernet endpoint: it injects scheduled frames and,
// for anything addressed to it, optionally replies per its ReplyMode.
type Host struct {
	*Framer
	schedule  []ScheduledFrame
	Mode      ReplyMode
	Transform func(payload []byte) []byte
}

// NewHost returns a Host with a single port (port 0). A nil logger disables
// tracing.
func NewHost(name string, mac netsim.MAC, log *slog.Logger) *Host {
	return &Host{Framer: NewFramer(name, mac, 1, log)}
}

// Schedule appends a frame to the host's injection schedule.
func (h *Host) Schedule(t int, f Frame) {
	h.schedule = append(h.schedule, ScheduledFrame{T: t, Frame: f})
}

// Update injects any frame scheduled for ctx.T, then handles every frame
// received this tick that is addressed to the host (its own MAC or
// broadcast); frames addressed elsewhere are dropped.
func (h *Host) Update(ctx netsim.UpdateContext) error {
	h.PollRecv(ctx)
	for _, s := range h.schedule {
		if s.T == ctx.T {
			h.SendFrame(ctx, s.Frame)
		}
	}
	for {
		f, ok := h.PopFrame()
		if !ok {
			break
		}
		if f.Dst != h.MAC() && !f.IsBroadcast() {
			continue
		}
		h.reply(ctx, f)
	}
	return nil
}

func (h *Host) reply(ctx netsim.UpdateContext, f Frame) {
	switch h.Mode {
	case ReplyEcho:
		h.SendFrame(ctx, Frame{Dst: f.Src, Src: h.MAC(), EtherType: f.EtherType, Payload: f.Payload})
	case ReplyCustom:
		if h.Transform == nil {
			return
		}
		if out := h.Transform(f.Payload); out != nil {
			h.SendFrame(ctx, Frame{Dst: f.Src, Src: h.MAC(), EtherType: f.EtherType, Payload: out})
		}
	case ReplyConsume:
	}
}
