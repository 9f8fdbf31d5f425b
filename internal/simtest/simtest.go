// Package simtest collects small helpers for building test topologies and
// packets tersely, adapted from github.com/soypat/lneto/internal/ltesto's
// PacketGen pattern.
package simtest

import "math/rand"

// AddrGen generates deterministic-but-varied hardware/ports for table driven
// tests that need many distinct endpoints without hand-picking each one.
type AddrGen struct {
	rng *rand.Rand
}

// NewAddrGen returns a generator seeded for reproducible test runs.
func NewAddrGen(seed int64) *AddrGen {
	return &AddrGen{rng: rand.New(rand.NewSource(seed))}
}

// MAC returns a pseudo-random unicast 48-bit address (the locally
// administered bit is always set so generated addresses never collide
// with a real vendor OUI in test fixtures).
func (g *AddrGen) MAC() uint64 {
	v := g.rng.Uint64() & 0xFFFFFFFFFFFF
	return (v &^ 0x010000000000) | 0x020000000000
}

// IPv4 returns a pseudo-random address inside 10.0.0.0/8, which test
// topologies use as their private range.
func (g *AddrGen) IPv4() uint32 {
	return 0x0A000000 | (g.rng.Uint32() & 0x00FFFFFF)
}

// Port returns a pseudo-random ephemeral TCP port in 1024..65534.
func (g *AddrGen) Port() uint16 {
	return uint16(1024 + g.rng.Intn(64511))
}

// Payload returns n pseudo-random bytes, used to fill Data segments/frames
// in tests that only care about byte-for-byte delivery, not content.
func (g *AddrGen) Payload(n int) []byte {
	buf := make([]byte, n)
	g.rng.Read(buf)
	return buf
}
