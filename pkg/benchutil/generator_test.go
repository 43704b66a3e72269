package benchutil_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/benchutil"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/segy"
)

func TestGeneratedFilesOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  benchutil.GeneratorConfig
	}{
		{"variable ieee", benchutil.DefaultConfig(50)},
		{"fixed ibm", benchutil.FixedConfig(40, 100, header.FormatIBMFloat32)},
		{"int8 extended", benchutil.GeneratorConfig{
			Traces: 10, MinSamples: 1, MaxSamples: 9, Format: header.FormatInt8, ExtendedHeaders: 1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, size := benchutil.WriteTempFile(t, tt.cfg)
			f, err := segy.Open(path, "Rev1", segy.WithReadOnly(), segy.WithLogger(zerolog.Nop()))
			if err != nil {
				t.Fatalf("open generated file (%d bytes): %v", size, err)
			}
			defer f.Close()
			if f.TraceCount() != tt.cfg.Traces {
				t.Errorf("TraceCount() = %d, want %d", f.TraceCount(), tt.cfg.Traces)
			}
			last, err := f.ReadTrace(tt.cfg.Traces - 1)
			if err != nil {
				t.Fatalf("read last trace: %v", err)
			}
			if n := last.Len(); n < tt.cfg.MinSamples || n > tt.cfg.MaxSamples {
				t.Errorf("last trace has %d samples, want [%d, %d]", n, tt.cfg.MinSamples, tt.cfg.MaxSamples)
			}
		})
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	_, a := benchutil.WriteTempFile(t, benchutil.DefaultConfig(20))
	_, b := benchutil.WriteTempFile(t, benchutil.DefaultConfig(20))
	if a != b {
		t.Errorf("same seed produced sizes %d and %d", a, b)
	}
}

func TestGeneratorRejectsBadConfig(t *testing.T) {
	bad := []benchutil.GeneratorConfig{
		{Traces: 1, MinSamples: 1, MaxSamples: 1, Format: header.FormatFixed32},
		{Traces: 1, MinSamples: 5, MaxSamples: 2, Format: header.FormatInt16},
		{Traces: 1, MinSamples: 1, MaxSamples: 2, Format: header.FormatInt16, FixedLengthFlag: true},
	}
	for i, cfg := range bad {
		path := filepath.Join(t.TempDir(), "bad.sgy")
		if _, err := benchutil.NewGenerator(cfg).WriteFile(path); err == nil {
			t.Errorf("config %d: expected error", i)
		}
	}
}
