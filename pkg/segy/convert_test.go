package segy

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunmann/segyio/pkg/header"
)

func TestSeismicTraceRoundTripsEveryFormat(t *testing.T) {
	dir := t.TempDir()
	in := &SeismicTrace{
		Samples:  []float32{0.5, -1.25, 100, -7},
		Receiver: [3]float32{AxisX: 1200, AxisY: -35},
		Shot:     [3]float32{AxisX: 980, AxisY: 41, AxisZ: 12},
		Dt:       4000,
	}

	cases := []struct {
		format header.FormatCode
		want   []float32
	}{
		{header.FormatIBMFloat32, []float32{0.5, -1.25, 100, -7}},
		{header.FormatIEEEFloat32, []float32{0.5, -1.25, 100, -7}},
		{header.FormatInt32, []float32{1, -1, 100, -7}},
		{header.FormatInt16, []float32{1, -1, 100, -7}},
		{header.FormatInt8, []float32{1, -1, 100, -7}},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			path := filepath.Join(dir, tc.format.String()+".sgy")
			f, err := Open(path, "Rev1", quiet)
			require.NoError(t, err)
			setFormat(t, f, tc.format)
			tr, err := f.FromSeismic(in)
			require.NoError(t, err)
			assert.Equal(t, tc.format, tr.Format())
			assert.Equal(t, 4, tr.Header.NumSamples())
			require.NoError(t, f.AppendTrace(tr))
			require.NoError(t, f.Close())

			f, err = Open(path, "Rev1", quiet)
			require.NoError(t, err)
			defer f.Close()
			out, err := f.ToSeismic(0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Samples)
			assert.Equal(t, [3]float32{1200, -35, 0}, out.Receiver)
			assert.Equal(t, [3]float32{980, 41, 0}, out.Shot, "depth is not stored")
			assert.Equal(t, float32(4000), out.Dt)
		})
	}
}

func TestSeismicCoordinatesFollowScalar(t *testing.T) {
	th := header.NewTraceHeaderRev1()
	require.NoError(t, th.Set(header.Trace.CoordinateScalar, -100))
	st := &SeismicTrace{
		Samples:  []float32{1},
		Receiver: [3]float32{AxisX: 1234.56, AxisY: -78.9},
		Shot:     [3]float32{AxisX: 0.01},
		Dt:       2000,
	}
	tr, err := FromSeismic(st, th, header.FormatIEEEFloat32)
	require.NoError(t, err)
	assert.Equal(t, int32(123456), th.Get(header.Trace.GroupX))
	assert.Equal(t, int32(-7890), th.Get(header.Trace.GroupY))
	assert.Equal(t, int32(1), th.Get(header.Trace.SourceX))
	assert.Equal(t, int32(2000), th.Get(header.Trace.SampleInterval))

	back, err := ToSeismic(tr)
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, back.Receiver[AxisX], 1e-3)
	assert.InDelta(t, -78.9, back.Receiver[AxisY], 1e-3)
	assert.InDelta(t, 0.01, back.Shot[AxisX], 1e-6)

	require.NoError(t, th.Set(header.Trace.CoordinateScalar, 10))
	require.NoError(t, th.Set(header.Trace.GroupX, 5))
	back, err = ToSeismic(tr)
	require.NoError(t, err)
	assert.Equal(t, float32(50), back.Receiver[AxisX])
}

func TestFromSeismicRejectsUnrepresentableValues(t *testing.T) {
	newHeader := func() header.TraceHeader { return header.NewTraceHeaderRev1() }

	_, err := FromSeismic(&SeismicTrace{Samples: []float32{128}}, newHeader(), header.FormatInt8)
	assert.True(t, errors.Is(err, ErrUnsupportedConversion), "int8 overflow: %v", err)

	_, err = FromSeismic(&SeismicTrace{Samples: []float32{-40000}}, newHeader(), header.FormatInt16)
	assert.True(t, errors.Is(err, ErrUnsupportedConversion), "int16 overflow: %v", err)

	_, err = FromSeismic(&SeismicTrace{Samples: []float32{float32(math.NaN())}}, newHeader(), header.FormatInt32)
	assert.True(t, errors.Is(err, ErrUnsupportedConversion), "NaN: %v", err)

	_, err = FromSeismic(&SeismicTrace{Samples: []float32{1}}, newHeader(), header.FormatFixed32)
	assert.True(t, errors.Is(err, ErrUnsupportedConversion), "fixed point: %v", err)

	_, err = FromSeismic(&SeismicTrace{Samples: []float32{1}, Dt: 40000}, newHeader(), header.FormatIEEEFloat32)
	assert.True(t, errors.Is(err, ErrFormatViolation), "sample interval: %v", err)

	_, err = FromSeismic(&SeismicTrace{Samples: []float32{1}, Shot: [3]float32{AxisX: 3e9}}, newHeader(), header.FormatIEEEFloat32)
	assert.True(t, errors.Is(err, ErrFormatViolation), "coordinate: %v", err)

	// Samples round to the nearest integer inside the range.
	tr, err := FromSeismic(&SeismicTrace{Samples: []float32{127.4, -128.4}}, newHeader(), header.FormatInt8)
	require.NoError(t, err)
	got, err := Samples[int8](tr)
	require.NoError(t, err)
	assert.Equal(t, []int8{127, -128}, got)
}

func TestFromSeismicCopiesFloatSamples(t *testing.T) {
	st := &SeismicTrace{Samples: []float32{1, 2}}
	tr, err := FromSeismic(st, header.NewTraceHeaderRev1(), header.FormatIEEEFloat32)
	require.NoError(t, err)
	st.Samples[0] = 99
	got, err := Samples[float32](tr)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got)
}
