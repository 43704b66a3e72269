package segy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/eunmann/segyio/pkg/binconv"
	"github.com/eunmann/segyio/pkg/header"
)

// Sample is the set of in-memory sample types. IBM and IEEE floats both
// decode to float32; integer formats keep their width.
type Sample interface {
	float32 | int32 | int16 | int8
}

// Trace is one trace header plus its samples. The sample slice type is fixed
// by the format code: []float32, []int32, []int16 or []int8.
type Trace struct {
	Header  header.TraceHeader
	format  header.FormatCode
	samples any
}

// MakeTrace builds a trace in the given format. The header's sample count is
// set to len(samples). T must be the in-memory type of format.
func MakeTrace[T Sample](th header.TraceHeader, format header.FormatCode, samples []T) (*Trace, error) {
	if err := checkSampleType[T](format); err != nil {
		return nil, err
	}
	if err := th.SetNumSamples(len(samples)); err != nil {
		return nil, err
	}
	return &Trace{Header: th, format: format, samples: samples}, nil
}

// Samples returns the samples of tr as []T. It fails with
// ErrUnsupportedConversion when T is not the in-memory type of the trace's
// format.
func Samples[T Sample](tr *Trace) ([]T, error) {
	s, ok := tr.samples.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s samples cannot be read as %T", ErrUnsupportedConversion, tr.format, zero)
	}
	return s, nil
}

func checkSampleType[T Sample](format header.FormatCode) error {
	var zero T
	var ok bool
	switch any(zero).(type) {
	case float32:
		ok = format == header.FormatIBMFloat32 || format == header.FormatIEEEFloat32
	case int32:
		ok = format == header.FormatInt32
	case int16:
		ok = format == header.FormatInt16
	case int8:
		ok = format == header.FormatInt8
	}
	if !ok {
		return fmt.Errorf("%w: %T samples do not match format %s", ErrUnsupportedConversion, zero, format)
	}
	return nil
}

// Format returns the sample format of the trace.
func (tr *Trace) Format() header.FormatCode { return tr.format }

// Len returns the number of samples.
func (tr *Trace) Len() int {
	switch s := tr.samples.(type) {
	case []float32:
		return len(s)
	case []int32:
		return len(s)
	case []int16:
		return len(s)
	case []int8:
		return len(s)
	}
	return 0
}

// Float64s widens the samples to float64, whatever their format.
func (tr *Trace) Float64s() []float64 {
	out := make([]float64, tr.Len())
	switch s := tr.samples.(type) {
	case []float32:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []int16:
		for i, v := range s {
			out[i] = float64(v)
		}
	case []int8:
		for i, v := range s {
			out[i] = float64(v)
		}
	}
	return out
}

func newSamples(format header.FormatCode, n int) (any, error) {
	switch format {
	case header.FormatIBMFloat32, header.FormatIEEEFloat32:
		return make([]float32, n), nil
	case header.FormatInt32:
		return make([]int32, n), nil
	case header.FormatInt16:
		return make([]int16, n), nil
	case header.FormatInt8:
		return make([]int8, n), nil
	}
	return nil, fmt.Errorf("%w: format %s", ErrUnsupportedConversion, format)
}

// decodeSamples converts a big-endian payload in place and returns the typed
// samples. raw is clobbered.
func decodeSamples(format header.FormatCode, raw []byte) (any, error) {
	width := format.SampleWidth()
	if !format.Supported() || width == 0 {
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedConversion, format)
	}
	if binconv.HostIsLittleEndian() {
		binconv.InvertWords(raw, width)
	}
	n := len(raw) / width
	ne := binary.NativeEndian
	switch format {
	case header.FormatIBMFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binconv.IBMToIEEE(ne.Uint32(raw[i*4:])))
		}
		return out, nil
	case header.FormatIEEEFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(ne.Uint32(raw[i*4:]))
		}
		return out, nil
	case header.FormatInt32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(ne.Uint32(raw[i*4:]))
		}
		return out, nil
	case header.FormatInt16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(ne.Uint16(raw[i*2:]))
		}
		return out, nil
	default: // FormatInt8
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out, nil
	}
}

// encode serializes the trace for disk: big-endian header then payload,
// with IBM conversion for format 1.
func (tr *Trace) encode() ([]byte, error) {
	if tr.Header == nil {
		return nil, fmt.Errorf("%w: trace has no header", ErrFormatViolation)
	}
	n := tr.Len()
	if got := tr.Header.NumSamples(); got != n {
		return nil, fmt.Errorf("%w: trace header declares %d samples, trace holds %d", ErrFormatViolation, got, n)
	}
	width := tr.format.SampleWidth()
	out := make([]byte, header.TraceSize+n*width)
	copy(out, tr.Header.Encode())
	payload := out[header.TraceSize:]
	ne := binary.NativeEndian
	switch s := tr.samples.(type) {
	case []float32:
		for i, v := range s {
			bits := math.Float32bits(v)
			if tr.format == header.FormatIBMFloat32 {
				bits = binconv.Float32ToIBM(v)
			}
			ne.PutUint32(payload[i*4:], bits)
		}
	case []int32:
		for i, v := range s {
			ne.PutUint32(payload[i*4:], uint32(v))
		}
	case []int16:
		for i, v := range s {
			ne.PutUint16(payload[i*2:], uint16(v))
		}
	case []int8:
		for i, v := range s {
			payload[i] = byte(v)
		}
	default:
		return nil, fmt.Errorf("%w: trace has no samples for format %s", ErrUnsupportedConversion, tr.format)
	}
	if binconv.HostIsLittleEndian() {
		binconv.InvertWords(payload, width)
	}
	return out, nil
}
