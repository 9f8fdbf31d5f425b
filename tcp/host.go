package tcp

import (
	"log/slog"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/internal/tracelog"
	"github.com/soypat/netsim/ip"
	"github.com/soypat/netsim/ipv4"
)

// State is one of the nine states a Socket moves through.
type State uint8

const (
	Closed State = iota
	Listening
	SynSent
	SynAckSent
	Established
	DataReceiving
	DataSent
	FinSent
	FinAckSent
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Listening:
		return "Listening"
	case SynSent:
		return "SynSent"
	case SynAckSent:
		return "SynAckSent"
	case Established:
		return "Established"
	case DataReceiving:
		return "DataReceiving"
	case DataSent:
		return "DataSent"
	case FinSent:
		return "FinSent"
	case FinAckSent:
		return "FinAckSent"
	default:
		return "unknown"
	}
}

// SocketID names the one socket a Host may hold at a time.
type SocketID int

// Socket is the connection-level state the spec calls for: one state, one
// destination port, one destination address.
type Socket struct {
	ID      SocketID
	State   State
	DstIP   netsim.IPAddr
	DstPort netsim.TPort
	// LocalPort is this socket's own TCP port, used both as a Listen
	// binding and as the source port of everything it sends.
	LocalPort netsim.TPort
}

type instKind uint8

const (
	instSocket instKind = iota
	instConnect
	instListen
	instSend
	instRecv
	instClose
)

// Instruction is one application-level step; the head of the instruction
// queue is consumed only once its State precondition is met, otherwise the
// whole queue stalls for that tick.
type Instruction struct {
	kind instKind
	sid  SocketID
	ip   netsim.IPAddr
	port netsim.TPort
	msg  []byte
}

func InstSocket(sid SocketID) Instruction { return Instruction{kind: instSocket, sid: sid} }
func InstConnect(sid SocketID, dstIP netsim.IPAddr, dstPort netsim.TPort) Instruction {
	return Instruction{kind: instConnect, sid: sid, ip: dstIP, port: dstPort}
}
func InstListen(sid SocketID, port netsim.TPort) Instruction {
	return Instruction{kind: instListen, sid: sid, port: port}
}
func InstSend(sid SocketID, msg []byte) Instruction {
	return Instruction{kind: instSend, sid: sid, msg: msg}
}
func InstRecv(sid SocketID) Instruction  { return Instruction{kind: instRecv, sid: sid} }
func InstClose(sid SocketID) Instruction { return Instruction{kind: instClose, sid: sid} }

// TaggedSegment pairs a segment with the tick it was observed or sent at.
type TaggedSegment struct {
	T       int
	Segment Segment
}

// Host wraps an IP device with exactly one socket, an application
// instruction queue, and receive/send segment logs. Application payloads
// delivered by Data segments are appended to DataLog rather than echoed.
type Host struct {
	*ip.Device
	socket       *Socket
	instructions []Instruction
	RecvLog      []TaggedSegment
	SendLog      []TaggedSegment
	DataLog      [][]byte
}

// NewHost returns a Host with numPorts Ethernet ports.
func NewHost(name string, mac netsim.MAC, numPorts netsim.Port, mask netsim.SubnetMask, log *slog.Logger) *Host {
	return &Host{Device: ip.NewDevice(name, mac, numPorts, mask, log)}
}

// Instruct appends an instruction to the host's application queue.
func (h *Host) Instruct(i Instruction) {
	h.instructions = append(h.instructions, i)
}

// Update processes one tick: receive datagrams carrying segments, run the
// segment state machine, then attempt the head application instruction if
// its precondition is met.
func (h *Host) Update(ctx netsim.UpdateContext) error {
	datagrams, err := h.PollRecv(ctx)
	if err != nil {
		return err
	}
	for _, dg := range datagrams {
		if !h.HasInterface(dg.Dst) || dg.Protocol != ipv4.ProtoBytes {
			continue
		}
		seg, err := Decode(dg.Payload.Bytes)
		if err != nil {
			return err
		}
		h.RecvLog = append(h.RecvLog, TaggedSegment{T: ctx.T, Segment: seg})
		if tracelog.CategoryEnabled(netsim.VerbosityTransport) {
			tracelog.LogAttrs(h.Logger(), slog.LevelDebug, "segment received",
				slog.String("segment", seg.String()), slog.Int("tick", ctx.T))
		}
		if err := h.onSegment(ctx, dg.Src, seg); err != nil {
			return err
		}
	}
	h.stepInstruction(ctx)
	h.RefreshForwardingTable()
	return nil
}

func (h *Host) stepInstruction(ctx netsim.UpdateContext) {
	if len(h.instructions) == 0 {
		return
	}
	inst := h.instructions[0]
	if !h.preconditionMet(inst) {
		return // stall: precondition unmet, leave the queue untouched.
	}
	h.instructions = h.instructions[1:]
	switch inst.kind {
	case instSocket:
		h.socket = &Socket{ID: inst.sid, State: Closed}
	case instConnect:
		h.socket.DstIP = inst.ip
		h.socket.DstPort = inst.port
		h.socket.State = SynSent
		h.sendSegment(ctx, Segment{Flags: TagSyn.flags()})
	case instListen:
		h.socket.LocalPort = inst.port
		h.socket.State = Listening
	case instSend:
		h.socket.State = DataSent
		h.sendSegment(ctx, Segment{Flags: 0, Payload: inst.msg})
	case instRecv:
		h.socket.State = DataReceiving
	case instClose:
		h.socket.State = FinSent
		h.sendSegment(ctx, Segment{Flags: TagFin.flags()})
	}
}

func (h *Host) preconditionMet(inst Instruction) bool {
	switch inst.kind {
	case instSocket:
		return true
	case instConnect, instListen:
		return h.socket != nil && h.socket.State == Closed
	case instSend, instRecv, instClose:
		return h.socket != nil && h.socket.State == Established
	default:
		return false
	}
}

func (h *Host) sendSegment(ctx netsim.UpdateContext, seg Segment) {
	seg.SrcPort = h.socket.LocalPort
	seg.DstPort = h.socket.DstPort
	payload := Encode(nil, seg)
	dg := ipv4.Datagram{
		TTL:      64,
		Protocol: ipv4.ProtoBytes,
		Dst:      h.socket.DstIP,
		Payload:  ipv4.Payload{Bytes: payload},
	}
	if len(h.interfaces()) > 0 {
		dg.Src = h.interfaces()[0]
	}
	h.SendLog = append(h.SendLog, TaggedSegment{T: ctx.T, Segment: seg})
	if tracelog.CategoryEnabled(netsim.VerbosityTransport) {
		tracelog.LogAttrs(h.Logger(), slog.LevelDebug, "segment sent",
			slog.String("segment", seg.String()), slog.Int("tick", ctx.T))
	}
	// SendDatagram folds an unresolved next hop into an ICMP-unreachable
	// datagram and never reports it as an error, so discarding its result
	// loses nothing. Update skips ICMP datagrams, so an unreachable that
	// reaches this host is not surfaced.
	_ = h.SendDatagram(ctx, dg)
}

func (h *Host) interfaces() []netsim.IPAddr {
	ifaces := h.Interfaces()
	addrs := make([]netsim.IPAddr, len(ifaces))
	for i, intf := range ifaces {
		addrs[i] = intf.Addr
	}
	return addrs
}

func (h *Host) onSegment(ctx netsim.UpdateContext, srcIP netsim.IPAddr, seg Segment) error {
	if h.socket == nil {
		return &netsim.InvalidTcpReceivedError{Msg: "segment received with no socket"}
	}
	tag := seg.Tag()
	s := h.socket
	switch {
	case s.State == Listening && tag == TagSyn:
		s.DstIP = srcIP
		s.DstPort = seg.SrcPort
		s.State = SynAckSent
		h.sendSegment(ctx, Segment{Flags: TagSynAck.flags()})
	case s.State == SynSent && tag == TagSynAck:
		s.State = Established
		h.sendSegment(ctx, Segment{Flags: TagAck.flags()})
	case s.State == SynAckSent && tag == TagAck:
		s.State = Established
	case s.State == Established && tag == TagFin:
		s.State = FinAckSent
		h.sendSegment(ctx, Segment{Flags: TagFinAck.flags()})
	case s.State == DataReceiving && tag == TagData:
		h.DataLog = append(h.DataLog, seg.Payload)
		s.State = Established
		h.sendSegment(ctx, Segment{Flags: TagAck.flags()})
	case s.State == DataSent && tag == TagAck:
		s.State = Established
	case s.State == FinSent && tag == TagFinAck:
		h.sendSegment(ctx, Segment{Flags: TagAck.flags()})
		h.socket = nil
	case s.State == FinAckSent && tag == TagAck:
		h.socket = nil
	default:
		return &netsim.InvalidTcpReceivedError{Msg: "unexpected " + tag.String() + " in state " + s.State.String()}
	}
	return nil
}
