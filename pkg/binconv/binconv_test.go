package binconv

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapInvolution(t *testing.T) {
	for _, v := range []uint16{0, 1, 0x0102, 0xfffe, 0x8000} {
		assert.Equal(t, v, Swap16(Swap16(v)))
	}
	for _, v := range []uint32{0, 1, 0x01020304, 0xdeadbeef, math.Float32bits(-3.5)} {
		assert.Equal(t, v, Swap32(Swap32(v)))
	}
	for _, v := range []uint64{0, 0x0102030405060708, math.MaxUint64} {
		assert.Equal(t, v, Swap64(Swap64(v)))
	}
	assert.Equal(t, uint32(0x04030201), Swap32(0x01020304))
}

func TestInvertBytesMatchesEncodings(t *testing.T) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, 0xcafebabe)
	InvertBytes(buf)
	assert.Equal(t, uint32(0xcafebabe), binary.LittleEndian.Uint32(buf))
	InvertBytes(buf)
	assert.Equal(t, uint32(0xcafebabe), binary.BigEndian.Uint32(buf))
}

func TestInvertWords(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7}
	InvertWords(b, 2)
	assert.Equal(t, []byte{2, 1, 4, 3, 6, 5, 7}, b)

	InvertWords(b, 2)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, b)

	InvertWords(b, 1)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, b)
}

func TestHostIsLittleEndian(t *testing.T) {
	var word [4]byte
	binary.NativeEndian.PutUint32(word[:], 0x01020304)
	assert.Equal(t, word[0] == 0x04, HostIsLittleEndian())
}

func TestIBMKnownValues(t *testing.T) {
	tests := []struct {
		name string
		ibm  uint32
		want float32
	}{
		{"one", 0x41100000, 1},
		{"minus one", 0xc1100000, -1},
		{"wikipedia example", 0xc276a000, -118.625},
		{"half", 0x40800000, 0.5},
		{"sixteen", 0x42100000, 16},
		{"zero", 0x00000000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IBMToFloat32(tt.ibm))
			assert.Equal(t, tt.ibm, Float32ToIBM(tt.want))
		})
	}
}

func TestIBMRoundTripNormalized(t *testing.T) {
	// Normalized IBM values (leading hex digit non-zero) whose magnitude fits
	// in binary32 must survive IBM -> IEEE -> IBM bit for bit.
	fractions := []uint32{0x100000, 0x1fffff, 0x800000, 0xffffff, 0x123456, 0x7abcde}
	for exp := uint32(34); exp <= 95; exp++ {
		for _, frac := range fractions {
			for _, sign := range []uint32{0, ibmSignMask} {
				ibm := sign | exp<<24 | frac
				ieee := IBMToIEEE(ibm)
				require.Equalf(t, ibm, IEEEToIBM(ieee), "ibm=%#08x ieee=%#08x", ibm, ieee)
			}
		}
	}
}

func TestIEEERoundTripWhenLowBitsClear(t *testing.T) {
	values := []float32{1, -2, 3.25, 1e-20, 6.02e23, -118.625, math.MaxFloat32 / 2}
	for _, v := range values {
		bits := math.Float32bits(v) &^ 0x7
		assert.Equalf(t, bits, IBMToIEEE(IEEEToIBM(bits)), "value %g", v)
	}
}

func TestIBMZeroBothWays(t *testing.T) {
	assert.Equal(t, uint32(0), IBMToIEEE(0))
	assert.Equal(t, uint32(0), IEEEToIBM(0))
	// A zero fraction is zero regardless of exponent.
	assert.Equal(t, uint32(0), IBMToIEEE(0x45000000))
}

func TestIBMSaturation(t *testing.T) {
	// 16^63 * 0.5 is far above MaxFloat32.
	huge := uint32(0x7f800000)
	assert.Equal(t, uint32(0x7f7fffff), IBMToIEEE(huge))
	assert.Equal(t, uint32(0xff7fffff), IBMToIEEE(huge|ibmSignMask))

	// 16^-64 * 0.5 is below the smallest normal float.
	assert.Equal(t, uint32(0), IBMToIEEE(0x00800000))

	assert.Equal(t, uint32(IBMMax), IEEEToIBM(math.Float32bits(float32(math.Inf(1)))))
}

func TestEBCDICKnownCharacters(t *testing.T) {
	tests := map[byte]byte{
		' ': 0x40,
		'A': 0xc1,
		'a': 0x81,
		'0': 0xf0,
		'9': 0xf9,
		'.': 0x4b,
		'C': 0xc3,
	}
	for ascii, ebcdic := range tests {
		assert.Equalf(t, ebcdic, ASCIIToEBCDIC(ascii), "ascii %q", ascii)
		assert.Equalf(t, ascii, EBCDICToASCII(ebcdic), "ebcdic %#02x", ebcdic)
	}
}

func TestEBCDICTablesAreInverse(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		require.Equal(t, b, EBCDICToASCII(ASCIIToEBCDIC(b)))
		require.Equal(t, b, ASCIIToEBCDIC(EBCDICToASCII(b)))
	}
}

func TestEncodeDecodeEBCDICInPlace(t *testing.T) {
	line := []byte("C 1 CLIENT SEISMIC SURVEY 2014")
	orig := append([]byte(nil), line...)

	EncodeEBCDIC(line)
	assert.NotEqual(t, orig, line)
	assert.Equal(t, byte(0xc3), line[0])

	DecodeEBCDIC(line)
	assert.Equal(t, orig, line)
}
