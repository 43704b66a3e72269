package segy

import (
	"fmt"
	"math"

	"github.com/eunmann/segyio/pkg/header"
)

// Coordinate axes of SeismicTrace.Receiver and SeismicTrace.Shot.
const (
	AxisX = iota
	AxisY
	AxisZ
)

// SeismicTrace is a trace reduced to what processing code needs: float
// samples, receiver and shot positions, and the sample interval. It does not
// depend on the sample format of the file it came from.
//
// AxisZ is not stored in trace headers; it is zero after ToSeismic and
// ignored by FromSeismic.
type SeismicTrace struct {
	Samples  []float32
	Receiver [3]float32
	Shot     [3]float32
	// Dt is the sample interval in microseconds.
	Dt float32
}

// ToSeismic converts tr to float samples and reads its geometry: group
// coordinates into Receiver, source coordinates into Shot, both scaled by the
// header's coordinate scalar.
func ToSeismic(tr *Trace) (*SeismicTrace, error) {
	if tr.Header == nil {
		return nil, fmt.Errorf("%w: trace has no header", ErrFormatViolation)
	}
	st := &SeismicTrace{Samples: make([]float32, tr.Len())}
	switch s := tr.samples.(type) {
	case []float32:
		copy(st.Samples, s)
	case []int32:
		for i, v := range s {
			st.Samples[i] = float32(v)
		}
	case []int16:
		for i, v := range s {
			st.Samples[i] = float32(v)
		}
	case []int8:
		for i, v := range s {
			st.Samples[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedConversion, tr.format)
	}

	h := tr.Header
	scalar := h.Get(header.Trace.CoordinateScalar)
	st.Receiver[AxisX] = unscale(h.Get(header.Trace.GroupX), scalar)
	st.Receiver[AxisY] = unscale(h.Get(header.Trace.GroupY), scalar)
	st.Shot[AxisX] = unscale(h.Get(header.Trace.SourceX), scalar)
	st.Shot[AxisY] = unscale(h.Get(header.Trace.SourceY), scalar)
	st.Dt = float32(h.Get(header.Trace.SampleInterval))
	return st, nil
}

// FromSeismic encodes st as a trace of the given format on header th, which
// is modified: sample count, sample interval and coordinates are set, the
// coordinates using th's existing coordinate scalar. Float samples are
// rounded to the nearest integer for integer formats; a sample that is NaN
// or outside the format's range fails with ErrUnsupportedConversion.
func FromSeismic(st *SeismicTrace, th header.TraceHeader, format header.FormatCode) (*Trace, error) {
	var (
		tr  *Trace
		err error
	)
	switch format {
	case header.FormatIBMFloat32, header.FormatIEEEFloat32:
		tr, err = MakeTrace(th, format, append([]float32(nil), st.Samples...))
	case header.FormatInt32:
		tr, err = roundTo[int32](st.Samples, th, format, math.MinInt32, math.MaxInt32)
	case header.FormatInt16:
		tr, err = roundTo[int16](st.Samples, th, format, math.MinInt16, math.MaxInt16)
	case header.FormatInt8:
		tr, err = roundTo[int8](st.Samples, th, format, math.MinInt8, math.MaxInt8)
	default:
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedConversion, format)
	}
	if err != nil {
		return nil, err
	}

	if math.IsNaN(float64(st.Dt)) || st.Dt < 0 || st.Dt > math.MaxInt16 {
		return nil, fmt.Errorf("%w: sample interval %g us does not fit the trace header", ErrFormatViolation, st.Dt)
	}
	scalar := th.Get(header.Trace.CoordinateScalar)
	values := []struct {
		f header.TraceField
		v float32
	}{
		{header.Trace.GroupX, st.Receiver[AxisX]},
		{header.Trace.GroupY, st.Receiver[AxisY]},
		{header.Trace.SourceX, st.Shot[AxisX]},
		{header.Trace.SourceY, st.Shot[AxisY]},
	}
	for _, fv := range values {
		raw, err := rescale(fv.v, scalar)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fv.f, err)
		}
		if err := th.Set(fv.f, raw); err != nil {
			return nil, err
		}
	}
	if err := th.Set(header.Trace.SampleInterval, int32(math.Round(float64(st.Dt)))); err != nil {
		return nil, err
	}
	return tr, nil
}

// ToSeismic reads trace n as a SeismicTrace.
func (sf *File) ToSeismic(n int) (*SeismicTrace, error) {
	tr, err := sf.ReadTrace(n)
	if err != nil {
		return nil, err
	}
	return ToSeismic(tr)
}

// FromSeismic encodes st in the file's sample format on a fresh header of
// the file's revision. The result can be appended or used to overwrite.
func (sf *File) FromSeismic(st *SeismicTrace) (*Trace, error) {
	return FromSeismic(st, sf.traceProto.Clone(), sf.Format())
}

func roundTo[T int32 | int16 | int8](in []float32, th header.TraceHeader, format header.FormatCode, lo, hi float64) (*Trace, error) {
	out := make([]T, len(in))
	for i, v := range in {
		r := math.Round(float64(v))
		if math.IsNaN(r) || r < lo || r > hi {
			return nil, fmt.Errorf("%w: sample %d (%g) does not fit format %s", ErrUnsupportedConversion, i, v, format)
		}
		out[i] = T(r)
	}
	return MakeTrace(th, format, out)
}

// unscale applies a SEG-Y coordinate scalar: positive multiplies, negative
// divides, zero means one.
func unscale(v, scalar int32) float32 {
	switch {
	case scalar > 0:
		return float32(v) * float32(scalar)
	case scalar < 0:
		return float32(v) / float32(-scalar)
	}
	return float32(v)
}

// rescale is the inverse of unscale, rounded to the nearest stored unit.
func rescale(v float32, scalar int32) (int32, error) {
	f := float64(v)
	switch {
	case scalar > 0:
		f /= float64(scalar)
	case scalar < 0:
		f *= float64(-scalar)
	}
	r := math.Round(f)
	if math.IsNaN(r) || r < math.MinInt32 || r > math.MaxInt32 {
		return 0, fmt.Errorf("%w: coordinate %g does not fit with scalar %d", ErrFormatViolation, v, scalar)
	}
	return int32(r), nil
}
