// Package binconv provides the low-level binary transforms used by SEG-Y I/O:
// byte-order inversion, IBM System/360 to IEEE754 float conversion and
// EBCDIC/ASCII translation.
package binconv

import (
	"encoding/binary"
	"math/bits"
)

// HostIsLittleEndian reports whether the running machine stores multi-byte
// values least significant byte first.
func HostIsLittleEndian() bool {
	var word [2]byte
	binary.NativeEndian.PutUint16(word[:], 1)
	return word[0] == 1
}

// Swap16 reverses the byte order of a 16-bit value.
func Swap16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// Swap32 reverses the byte order of a 32-bit value.
func Swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// Swap64 reverses the byte order of a 64-bit value.
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// InvertBytes reverses b in place.
func InvertBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// InvertWords reverses the byte order of every width-sized word in b.
// Widths of 0 or 1 and trailing partial words are left untouched.
func InvertWords(b []byte, width int) {
	if width <= 1 {
		return
	}
	for off := 0; off+width <= len(b); off += width {
		InvertBytes(b[off : off+width])
	}
}
