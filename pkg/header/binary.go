package header

import (
	"fmt"
	"io"

	"github.com/eunmann/segyio/pkg/field"
	"github.com/eunmann/segyio/pkg/segyerr"
)

// BinaryFileHeader is the 400-byte binary file header of one revision.
//
// Fields common to every revision are read and written through Get and Set.
// Revision-specific fields are only reachable through the concrete type, so a
// Rev1 field cannot be applied to a Rev0 header.
type BinaryFileHeader interface {
	Revision() Revision
	Get(f BinaryField) int32
	Set(f BinaryField, v int32) error
	FormatCode() FormatCode
	// FixedLengthTraces reports whether every trace has the binary header's
	// samples-per-trace count. Always false before Rev1.
	FixedLengthTraces() bool
	// ExtendedTextHeaders is the number of 3200-byte extended textual headers
	// following the binary header; -1 means variable.
	ExtendedTextHeaders() int
	Print(w io.Writer) error
	InvertByteOrder()
	CheckConsistency() error
	Clone() BinaryFileHeader
	Buffer() *field.Buffer
	Load(p []byte) error
	Encode() []byte
}

// BinaryHeaderRev0 is the base binary file header.
type BinaryHeaderRev0 struct {
	buf *field.Buffer
}

// NewBinaryHeaderRev0 returns a zero-filled Rev0 header.
func NewBinaryHeaderRev0() *BinaryHeaderRev0 {
	return &BinaryHeaderRev0{buf: field.New(binaryRev0Layout)}
}

func (h *BinaryHeaderRev0) Revision() Revision { return Rev0 }

func (h *BinaryHeaderRev0) Get(f BinaryField) int32 { return h.buf.Get(f.def) }

func (h *BinaryHeaderRev0) Set(f BinaryField, v int32) error { return h.buf.Set(f.def, v) }

func (h *BinaryHeaderRev0) FormatCode() FormatCode {
	return FormatCode(h.buf.Get(Binary.FormatCode.def))
}

func (h *BinaryHeaderRev0) FixedLengthTraces() bool { return false }

func (h *BinaryHeaderRev0) ExtendedTextHeaders() int { return 0 }

func (h *BinaryHeaderRev0) Print(w io.Writer) error {
	return h.buf.PrintDefs(w, binaryRev0Defs)
}

// InvertByteOrder swaps every field of the record, extension fields included.
func (h *BinaryHeaderRev0) InvertByteOrder() { h.buf.InvertByteOrder() }

func (h *BinaryHeaderRev0) CheckConsistency() error {
	v := segyerr.NewViolations("binary file header (" + Rev0.Tag() + ")")
	h.checkBase(v)
	return v.Err()
}

func (h *BinaryHeaderRev0) checkBase(v *segyerr.Violations) {
	switch code := h.FormatCode(); {
	case code == FormatFixed32:
		v.Addf("data sample format code 4 (fixed-point with gain) is deprecated and unsupported")
	case !code.Known():
		v.Addf("data sample format code %d is not one of 1, 2, 3, 4, 5, 8", int16(code))
	}
	for _, f := range []BinaryField{
		Binary.DataTracesPerEnsemble, Binary.AuxTracesPerEnsemble,
		Binary.SampleInterval, Binary.SampleIntervalOriginal,
		Binary.SamplesPerTrace, Binary.SamplesPerTraceOriginal,
		Binary.EnsembleFold,
	} {
		if n := h.Get(f); n < 0 {
			v.Addf("%s is negative (%d)", f, n)
		}
	}
	if s := h.Get(Binary.TraceSorting); s < -1 || s > 9 {
		v.Addf("%s %d is not in -1..9", Binary.TraceSorting, s)
	}
	if m := h.Get(Binary.MeasurementSystem); m != 0 && m != 1 && m != 2 {
		v.Addf("%s %d is neither 1 (meters) nor 2 (feet)", Binary.MeasurementSystem, m)
	}
}

func (h *BinaryHeaderRev0) Clone() BinaryFileHeader {
	return &BinaryHeaderRev0{buf: h.buf.Clone()}
}

func (h *BinaryHeaderRev0) Buffer() *field.Buffer { return h.buf }

func (h *BinaryHeaderRev0) Load(p []byte) error { return h.buf.Load(p) }

func (h *BinaryHeaderRev0) Encode() []byte { return h.buf.Encode() }

// BinaryHeaderRev1 is a Rev0 header plus the Rev1 extension fields.
type BinaryHeaderRev1 struct {
	BinaryHeaderRev0
}

// NewBinaryHeaderRev1 returns a zero-filled Rev1 header.
func NewBinaryHeaderRev1() *BinaryHeaderRev1 {
	return &BinaryHeaderRev1{BinaryHeaderRev0{buf: field.New(binaryRev1Layout)}}
}

func (h *BinaryHeaderRev1) Revision() Revision { return Rev1 }

// Extension returns a Rev1-only field.
func (h *BinaryHeaderRev1) Extension(f BinaryRev1Field) int32 { return h.buf.Get(f.def) }

// SetExtension stores a Rev1-only field.
func (h *BinaryHeaderRev1) SetExtension(f BinaryRev1Field, v int32) error {
	return h.buf.Set(f.def, v)
}

func (h *BinaryHeaderRev1) FixedLengthTraces() bool {
	return h.Extension(BinaryRev1.FixedLengthTraces) == 1
}

func (h *BinaryHeaderRev1) ExtendedTextHeaders() int {
	return int(h.Extension(BinaryRev1.ExtendedTextHeaders))
}

func (h *BinaryHeaderRev1) Print(w io.Writer) error {
	if err := h.BinaryHeaderRev0.Print(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-- Rev1 extension --"); err != nil {
		return err
	}
	return h.buf.PrintDefs(w, binaryRev1Defs)
}

func (h *BinaryHeaderRev1) CheckConsistency() error {
	v := segyerr.NewViolations("binary file header (" + Rev1.Tag() + ")")
	h.checkBase(v)
	if f := h.Extension(BinaryRev1.FixedLengthTraces); f != 0 && f != 1 {
		v.Addf("%s %d is neither 0 nor 1", BinaryRev1.FixedLengthTraces, f)
	}
	if f := h.Extension(BinaryRev1.FixedLengthTraces); f == 1 && h.Get(Binary.SamplesPerTrace) <= 0 {
		v.Addf("fixed length traces need a positive %s", Binary.SamplesPerTrace)
	}
	if n := h.Extension(BinaryRev1.ExtendedTextHeaders); n < -1 {
		v.Addf("%s %d is below -1", BinaryRev1.ExtendedTextHeaders, n)
	}
	return v.Err()
}

func (h *BinaryHeaderRev1) Clone() BinaryFileHeader {
	return &BinaryHeaderRev1{BinaryHeaderRev0{buf: h.buf.Clone()}}
}
