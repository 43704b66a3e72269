// Package header models the SEG-Y textual, binary and trace headers for each
// supported format revision, and the registry that resolves a revision tag to
// correctly shaped header instances.
package header

import "fmt"

// FormatCode is the binary-header data sample format code. It fixes the
// width and encoding of every sample in the file.
type FormatCode int16

// Known sample format codes.
const (
	FormatIBMFloat32  FormatCode = 1
	FormatInt32       FormatCode = 2
	FormatInt16       FormatCode = 3
	FormatFixed32     FormatCode = 4 // fixed-point with gain, deprecated
	FormatIEEEFloat32 FormatCode = 5
	FormatInt8        FormatCode = 8
)

// Known reports whether c is one of the six format codes defined by SEG-Y.
func (c FormatCode) Known() bool {
	switch c {
	case FormatIBMFloat32, FormatInt32, FormatInt16, FormatFixed32, FormatIEEEFloat32, FormatInt8:
		return true
	}
	return false
}

// Supported reports whether samples in format c can be decoded.
func (c FormatCode) Supported() bool {
	return c.Known() && c != FormatFixed32
}

// SampleWidth returns the on-disk size of one sample in bytes, or 0 for an
// unknown code.
func (c FormatCode) SampleWidth() int {
	switch c {
	case FormatIBMFloat32, FormatInt32, FormatFixed32, FormatIEEEFloat32:
		return 4
	case FormatInt16:
		return 2
	case FormatInt8:
		return 1
	}
	return 0
}

func (c FormatCode) String() string {
	switch c {
	case FormatIBMFloat32:
		return "ibm-float32"
	case FormatInt32:
		return "int32"
	case FormatInt16:
		return "int16"
	case FormatFixed32:
		return "fixed32-gain"
	case FormatIEEEFloat32:
		return "ieee-float32"
	case FormatInt8:
		return "int8"
	}
	return fmt.Sprintf("format(%d)", int16(c))
}
