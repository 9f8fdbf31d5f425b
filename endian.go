package netsim

import "encoding/binary"

// PutUint16 writes v as big-endian into buf[0:2]. Panics if buf is short,
// same as encoding/binary.
func PutUint16(buf []byte, v uint16) { binary.BigEndian.PutUint16(buf, v) }

// Uint16 reads a big-endian uint16 from buf[0:2].
func Uint16(buf []byte) uint16 { return binary.BigEndian.Uint16(buf) }

// PutUint32 writes v as big-endian into buf[0:4].
func PutUint32(buf []byte, v uint32) { binary.BigEndian.PutUint32(buf, v) }

// Uint32 reads a big-endian uint32 from buf[0:4].
func Uint32(buf []byte) uint32 { return binary.BigEndian.Uint32(buf) }

// PutMAC writes the low 48 bits of mac as 6 big-endian bytes into buf[0:6].
func PutMAC(buf []byte, mac MAC) {
	buf[0] = byte(mac >> 40)
	buf[1] = byte(mac >> 32)
	buf[2] = byte(mac >> 24)
	buf[3] = byte(mac >> 16)
	buf[4] = byte(mac >> 8)
	buf[5] = byte(mac)
}

// GetMAC reads 6 big-endian bytes from buf[0:6] into a MAC.
func GetMAC(buf []byte) MAC {
	return MAC(buf[0])<<40 | MAC(buf[1])<<32 | MAC(buf[2])<<24 |
		MAC(buf[3])<<16 | MAC(buf[4])<<8 | MAC(buf[5])
}
