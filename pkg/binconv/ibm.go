package binconv

import "math"

// IBM System/360 single precision layout: 1 sign bit, 7-bit base-16 exponent
// biased by 64, 24-bit fraction with the radix point before its first bit.
const (
	ibmSignMask     = 0x80000000
	ibmExponentMask = 0x7f000000
	ibmFractionMask = 0x00ffffff
	ibmFractionTop  = 0x00800000

	// IBMMax is the largest finite IBM magnitude; IEEE infinities and NaNs
	// saturate to it.
	IBMMax = 0x7fffffff
)

// IBMToIEEE converts the bits of an IBM float to the bits of the nearest
// IEEE754 binary32. Zero fractions map to +0, magnitudes above the IEEE range
// saturate to the largest finite float and magnitudes below it flush to +0.
func IBMToIEEE(ibm uint32) uint32 {
	sign := ibm & ibmSignMask
	frac := ibm & ibmFractionMask
	if frac == 0 {
		return 0
	}

	exp := int((ibm&ibmExponentMask)>>22) - 130
	for frac&ibmFractionTop == 0 {
		exp--
		frac <<= 1
	}

	switch {
	case exp > 254:
		return sign | 0x7f7fffff
	case exp <= 0:
		return 0
	default:
		return sign | uint32(exp)<<23 | (frac & 0x007fffff)
	}
}

// IEEEToIBM converts the bits of an IEEE754 binary32 to IBM float bits.
// The IBM fraction keeps 21 to 24 significant bits depending on the hex
// exponent alignment, so low mantissa bits may be truncated. Zeros and
// subnormals map to 0.
func IEEEToIBM(ieee uint32) uint32 {
	sign := ieee & ibmSignMask
	biased := (ieee >> 23) & 0xff
	switch biased {
	case 0:
		return 0
	case 0xff:
		return sign | IBMMax
	}

	frac := (ieee & 0x007fffff) | ibmFractionTop
	exp := int(biased) - 126
	for exp&3 != 0 {
		exp++
		frac >>= 1
	}
	return sign | uint32((exp>>2)+64)<<24 | frac
}

// IBMToFloat32 decodes IBM float bits to a float32.
func IBMToFloat32(ibm uint32) float32 {
	return math.Float32frombits(IBMToIEEE(ibm))
}

// Float32ToIBM encodes f as IBM float bits.
func Float32ToIBM(f float32) uint32 {
	return IEEEToIBM(math.Float32bits(f))
}
