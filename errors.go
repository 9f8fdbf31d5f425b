package netsim

import "fmt"

// NotEnoughBytesError is returned by a decoder when the supplied buffer is
// shorter than the format requires. Framing layers (ethernet) swallow this
// and wait for more bytes; every other layer treats it as a hard error.
type NotEnoughBytesError struct{}

func (e *NotEnoughBytesError) Error() string { return "not enough bytes" }

// ErrNotEnoughBytes is the shared NotEnoughBytesError instance; decoders
// should return this rather than allocating a new one, mirroring the
// teacher's genericErrPacketDrop singleton pattern.
var ErrNotEnoughBytes = &NotEnoughBytesError{}

// InvalidBytesError is returned when bytes are present but violate the wire
// format: bad preamble, unsupported ethertype, unsupported ARP opcode, etc.
type InvalidBytesError struct {
	Msg string
}

func (e *InvalidBytesError) Error() string { return "invalid bytes: " + e.Msg }

// DeviceNotFoundError is returned by a topology lookup for an unregistered MAC.
type DeviceNotFoundError struct {
	MAC MAC
}

func (e *DeviceNotFoundError) Error() string { return fmt.Sprintf("device not found: %s", e.MAC) }

// ConnectionNotFoundError is returned when the fabric has no directed link
// originating at (MAC, Port).
type ConnectionNotFoundError struct {
	MAC  MAC
	Port Port
}

func (e *ConnectionNotFoundError) Error() string {
	return fmt.Sprintf("connection not found: mac=%s port=%s", e.MAC, e.Port)
}

// NetworkConnectFailedError is returned when link registration is refused
// (bad port, port already in use, or a self-loop).
type NetworkConnectFailedError struct {
	MAC0, MAC1 MAC
	Msg        string
}

func (e *NetworkConnectFailedError) Error() string {
	return fmt.Sprintf("network connect failed: %s - %s: %s", e.MAC0, e.MAC1, e.Msg)
}

// MacNotResolvedError is returned internally by next-hop resolution. It
// never escapes the IP device: the egress path catches it and synthesizes
// an ICMP-unreachable datagram instead, dropping that datagram if it cannot
// be resolved either (see package ip).
type MacNotResolvedError struct{}

func (e *MacNotResolvedError) Error() string { return "mac not resolved" }

// ErrMacNotResolved is the shared MacNotResolvedError instance.
var ErrMacNotResolved = &MacNotResolvedError{}

// IpUnreachableError is surfaced to the application when an ICMP-unreachable
// datagram is received for a prior send.
type IpUnreachableError struct {
	Code uint8
}

func (e *IpUnreachableError) Error() string { return fmt.Sprintf("ip unreachable: code=%d", e.Code) }

// InvalidTcpReceivedError is returned by the TCP state machine when a
// segment arrives that the socket's current state does not expect.
type InvalidTcpReceivedError struct {
	Msg string
}

func (e *InvalidTcpReceivedError) Error() string { return "invalid tcp received: " + e.Msg }
