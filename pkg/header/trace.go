package header

import (
	"fmt"
	"io"

	"github.com/eunmann/segyio/pkg/field"
	"github.com/eunmann/segyio/pkg/segyerr"
)

// TraceHeader is the 240-byte header preceding every trace's samples.
type TraceHeader interface {
	Revision() Revision
	Get(f TraceField) int32
	Set(f TraceField, v int32) error
	// NumSamples is the number of samples that follow this header. It is the
	// only place the trace length is recorded.
	NumSamples() int
	SetNumSamples(n int) error
	Print(w io.Writer) error
	InvertByteOrder()
	CheckConsistency() error
	Clone() TraceHeader
	Buffer() *field.Buffer
	Load(p []byte) error
	Encode() []byte
}

var validScalars = map[int32]bool{
	0: true, 1: true, -1: true, 10: true, -10: true, 100: true, -100: true,
	1000: true, -1000: true, 10000: true, -10000: true,
}

// TraceHeaderRev0 is the base trace header.
type TraceHeaderRev0 struct {
	buf *field.Buffer
}

// NewTraceHeaderRev0 returns a zero-filled Rev0 trace header.
func NewTraceHeaderRev0() *TraceHeaderRev0 {
	return &TraceHeaderRev0{buf: field.New(traceRev0Layout)}
}

func (h *TraceHeaderRev0) Revision() Revision { return Rev0 }

func (h *TraceHeaderRev0) Get(f TraceField) int32 { return h.buf.Get(f.def) }

func (h *TraceHeaderRev0) Set(f TraceField, v int32) error { return h.buf.Set(f.def, v) }

func (h *TraceHeaderRev0) NumSamples() int { return int(h.buf.Get(Trace.NumSamples.def)) }

func (h *TraceHeaderRev0) SetNumSamples(n int) error {
	if n < 0 || !Trace.NumSamples.def.Fits(int32(n)) || int(int32(n)) != n {
		return fmt.Errorf("%w: sample count %d does not fit %s", segyerr.ErrOutOfRange, n, Trace.NumSamples)
	}
	return h.buf.Set(Trace.NumSamples.def, int32(n))
}

func (h *TraceHeaderRev0) Print(w io.Writer) error {
	return h.buf.PrintDefs(w, traceRev0Defs)
}

func (h *TraceHeaderRev0) InvertByteOrder() { h.buf.InvertByteOrder() }

func (h *TraceHeaderRev0) CheckConsistency() error {
	v := segyerr.NewViolations("trace header (" + Rev0.Tag() + ")")
	h.checkBase(v)
	return v.Err()
}

func (h *TraceHeaderRev0) checkBase(v *segyerr.Violations) {
	if n := h.Get(Trace.NumSamples); n < 0 {
		v.Addf("%s is negative (%d)", Trace.NumSamples, n)
	}
	if n := h.Get(Trace.SampleInterval); n < 0 {
		v.Addf("%s is negative (%d)", Trace.SampleInterval, n)
	}
	for _, f := range []TraceField{Trace.ElevationScalar, Trace.CoordinateScalar} {
		if s := h.Get(f); !validScalars[s] {
			v.Addf("%s %d is not a power of ten up to 10000", f, s)
		}
	}
}

func (h *TraceHeaderRev0) Clone() TraceHeader {
	return &TraceHeaderRev0{buf: h.buf.Clone()}
}

func (h *TraceHeaderRev0) Buffer() *field.Buffer { return h.buf }

func (h *TraceHeaderRev0) Load(p []byte) error { return h.buf.Load(p) }

func (h *TraceHeaderRev0) Encode() []byte { return h.buf.Encode() }

// TraceHeaderRev1 is a Rev0 trace header plus the Rev1 extension fields.
type TraceHeaderRev1 struct {
	TraceHeaderRev0
}

// NewTraceHeaderRev1 returns a zero-filled Rev1 trace header.
func NewTraceHeaderRev1() *TraceHeaderRev1 {
	return &TraceHeaderRev1{TraceHeaderRev0{buf: field.New(traceRev1Layout)}}
}

func (h *TraceHeaderRev1) Revision() Revision { return Rev1 }

// Extension returns a Rev1-only field.
func (h *TraceHeaderRev1) Extension(f TraceRev1Field) int32 { return h.buf.Get(f.def) }

// SetExtension stores a Rev1-only field.
func (h *TraceHeaderRev1) SetExtension(f TraceRev1Field, v int32) error {
	return h.buf.Set(f.def, v)
}

func (h *TraceHeaderRev1) Print(w io.Writer) error {
	if err := h.TraceHeaderRev0.Print(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-- Rev1 extension --"); err != nil {
		return err
	}
	return h.buf.PrintDefs(w, traceRev1Defs)
}

func (h *TraceHeaderRev1) CheckConsistency() error {
	v := segyerr.NewViolations("trace header (" + Rev1.Tag() + ")")
	h.checkBase(v)
	if s := h.Extension(TraceRev1.ShotpointScalar); !validScalars[s] {
		v.Addf("%s %d is not a power of ten up to 10000", TraceRev1.ShotpointScalar, s)
	}
	if s := h.Extension(TraceRev1.TimeScalar); !validScalars[s] {
		v.Addf("%s %d is not a power of ten up to 10000", TraceRev1.TimeScalar, s)
	}
	return v.Err()
}

func (h *TraceHeaderRev1) Clone() TraceHeader {
	return &TraceHeaderRev1{TraceHeaderRev0{buf: h.buf.Clone()}}
}
