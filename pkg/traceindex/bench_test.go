package traceindex

import (
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/benchutil"
	"github.com/eunmann/segyio/pkg/header"
)

func benchmarkBuild(b *testing.B, cfg benchutil.GeneratorConfig) {
	path, size := benchutil.WriteTempFile(b, cfg)
	f, err := os.Open(path)
	if err != nil {
		b.Fatal(err)
	}
	defer f.Close()

	fixed := 0
	if cfg.FixedLengthFlag {
		fixed = cfg.MinSamples
	}
	b.SetBytes(size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx, err := NewIndexer(NewMemoryStore(), Config{
			DataStart:    3600,
			SampleWidth:  cfg.Format.SampleWidth(),
			FixedSamples: fixed,
			TraceHeader:  header.NewTraceHeaderRev1(),
			Logger:       zerolog.Nop(),
		})
		if err != nil {
			b.Fatal(err)
		}
		if err := idx.Build(f, size); err != nil {
			b.Fatal(err)
		}
		if idx.Size() != cfg.Traces {
			b.Fatalf("indexed %d traces, want %d", idx.Size(), cfg.Traces)
		}
	}
}

func BenchmarkBuildVariable(b *testing.B) {
	for _, n := range benchutil.BenchmarkTraceCounts {
		b.Run(fmt.Sprintf("traces=%d", n), func(b *testing.B) {
			benchmarkBuild(b, benchutil.DefaultConfig(n))
		})
	}
}

func BenchmarkBuildFixed(b *testing.B) {
	for _, n := range benchutil.BenchmarkTraceCounts {
		b.Run(fmt.Sprintf("traces=%d", n), func(b *testing.B) {
			benchmarkBuild(b, benchutil.FixedConfig(n, 1000, header.FormatIEEEFloat32))
		})
	}
}

func BenchmarkBuildScaling(b *testing.B) {
	benchutil.SkipIfNoLongBench(b)
	for _, n := range benchutil.ScalingTraceCounts {
		b.Run(fmt.Sprintf("traces=%d", n), func(b *testing.B) {
			benchmarkBuild(b, benchutil.DefaultConfig(n))
		})
	}
}
