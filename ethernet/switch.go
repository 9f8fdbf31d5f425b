package ethernet

import (
	"log/slog"

	"github.com/soypat/netsim"
)

// Switch is an N-port learning bridge: every frame it decodes is handed
// straight back to SendFrame, whose forwarding-table logic picks the
// egress port(s).
type Switch struct {
	*Framer
}

// NewSwitch returns a Switch with numPorts ports. A nil logger disables
// tracing.
func NewSwitch(name string, mac netsim.MAC, numPorts netsim.Port, log *slog.Logger) *Switch {
	return &Switch{Framer: NewFramer(name, mac, numPorts, log)}
}

// Update decodes whatever arrived this tick and forwards each frame.
func (s *Switch) Update(ctx netsim.UpdateContext) error {
	s.PollRecv(ctx)
	for {
		f, ok := s.PopFrame()
		if !ok {
			break
		}
		s.SendFrame(ctx, f)
	}
	return nil
}
