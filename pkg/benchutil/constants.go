package benchutil

// Shared constants for benchmarks across packages.

// BenchmarkSeed is the default seed for reproducible benchmark data generation.
const BenchmarkSeed = 42

// Standard benchmark trace counts for quick runs.
var BenchmarkTraceCounts = []int{1000, 10000}

// ScalingTraceCounts are larger counts for scaling runs.
// Used with SEGYIO_LONG_BENCH=1 environment variable.
var ScalingTraceCounts = []int{100000, 500000, 1000000}
