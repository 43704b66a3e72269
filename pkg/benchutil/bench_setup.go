package benchutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SkipIfNoLongBench skips the benchmark if SEGYIO_LONG_BENCH is not set.
// Use this to gate long-running benchmarks that shouldn't run by default.
func SkipIfNoLongBench(b *testing.B) {
	if os.Getenv("SEGYIO_LONG_BENCH") == "" {
		b.Skip("set SEGYIO_LONG_BENCH=1 to run scaling benchmark")
	}
}

// WriteTempFile generates a file from cfg in a per-benchmark temp dir and
// returns its path and size.
func WriteTempFile(tb testing.TB, cfg GeneratorConfig) (string, int64) {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "bench.sgy")
	size, err := NewGenerator(cfg).WriteFile(path)
	if err != nil {
		tb.Fatalf("generate %s: %v", path, err)
	}
	return path, size
}
