package binconv

import "golang.org/x/text/encoding/charmap"

// Translation tables between EBCDIC (IBM code page 037) and the 8-bit
// Latin-1 superset of ASCII. Code page 037 is a bijection over all 256 byte
// values, so the two tables are exact inverses.
var (
	ebcdicToASCII [256]byte
	asciiToEBCDIC [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		r := charmap.CodePage037.DecodeByte(byte(i))
		ebcdicToASCII[i] = byte(r)
		asciiToEBCDIC[byte(r)] = byte(i)
	}
}

// EBCDICToASCII translates a single EBCDIC byte.
func EBCDICToASCII(b byte) byte { return ebcdicToASCII[b] }

// ASCIIToEBCDIC translates a single ASCII byte.
func ASCIIToEBCDIC(b byte) byte { return asciiToEBCDIC[b] }

// DecodeEBCDIC translates b from EBCDIC to ASCII in place.
func DecodeEBCDIC(b []byte) {
	for i, c := range b {
		b[i] = ebcdicToASCII[c]
	}
}

// EncodeEBCDIC translates b from ASCII to EBCDIC in place.
func EncodeEBCDIC(b []byte) {
	for i, c := range b {
		b[i] = asciiToEBCDIC[c]
	}
}
